package services

// ServiceContainer holds all the application services for dependency injection
type ServiceContainer struct {
	User         UserSvcFacade
	Token        TokenSvcFacade
	GoogleOAuth  GoogleOAuthSvcFacade
	Wallet       WalletSvcFacade
	Payment      PaymentSvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Merchant     MerchantSvcFacade
}
