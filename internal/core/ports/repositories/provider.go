package repositories

// RepositoryProvider bundles the repository facades the service layer needs.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	WalletRepo       WalletRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	MerchantRepo     MerchantRepositoryFacade
}
