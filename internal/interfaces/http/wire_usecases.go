package http

import (
	apitokenUsecases "github.com/lumishop/shopadmin/internal/application/apitoken/usecases"
	orderUsecases "github.com/lumishop/shopadmin/internal/application/order/usecases"
	reportUsecases "github.com/lumishop/shopadmin/internal/application/report/usecases"
	userUsecases "github.com/lumishop/shopadmin/internal/application/user/usecases"
)

// allUseCases holds the use case instances handed to handlers and middlewares.
type allUseCases struct {
	// user
	login          *userUsecases.LoginWithPasswordUseCase
	initiateOAuth  *userUsecases.InitiateOAuthLoginUseCase
	handleCallback *userUsecases.HandleOAuthCallbackUseCase
	currentUser    *userUsecases.GetCurrentUserUseCase
	createUser     *userUsecases.CreateUserUseCase

	// api tokens
	issueToken        *apitokenUsecases.IssueTokenUseCase
	listTokens        *apitokenUsecases.ListTokensUseCase
	revokeToken       *apitokenUsecases.RevokeTokenUseCase
	authenticateToken *apitokenUsecases.AuthenticateTokenUseCase

	// orders
	createOrder       *orderUsecases.CreateOrderUseCase
	getOrder          *orderUsecases.GetOrderUseCase
	listOrders        *orderUsecases.ListOrdersUseCase
	updateOrderStatus *orderUsecases.UpdateOrderStatusUseCase

	// reports
	revenueReport *reportUsecases.GetRevenueReportUseCase
	exportReport  *reportUsecases.ExportRevenueReportUseCase
	mailReport    *reportUsecases.MailRevenueReportUseCase
}

func (c *Container) initUseCases() {
	log := c.log
	repos := c.repos
	svcs := c.svcs

	ucs := &allUseCases{
		login:          userUsecases.NewLoginWithPasswordUseCase(repos.userRepo, svcs.hasher, svcs.jwt, log),
		initiateOAuth:  userUsecases.NewInitiateOAuthLoginUseCase(svcs.oauthClient, svcs.stateStore, log),
		handleCallback: userUsecases.NewHandleOAuthCallbackUseCase(repos.userRepo, svcs.oauthClient, svcs.stateStore, svcs.jwt, log),
		currentUser:    userUsecases.NewGetCurrentUserUseCase(repos.userRepo, log),
		createUser:     userUsecases.NewCreateUserUseCase(repos.userRepo, svcs.hasher, log),

		issueToken: apitokenUsecases.NewIssueTokenUseCase(repos.tokenRepo, repos.userRepo, svcs.tokenGen,
			apitokenUsecases.RateLimitPolicy{
				Default: c.cfg.APIToken.DefaultRateLimit,
				Max:     c.cfg.APIToken.MaxRateLimit,
			}, log),
		listTokens:        apitokenUsecases.NewListTokensUseCase(repos.tokenRepo, log),
		revokeToken:       apitokenUsecases.NewRevokeTokenUseCase(repos.tokenRepo, log),
		authenticateToken: apitokenUsecases.NewAuthenticateTokenUseCase(repos.tokenRepo, repos.userRepo, svcs.tokenGen, log),

		createOrder:       orderUsecases.NewCreateOrderUseCase(repos.orderRepo, log),
		getOrder:          orderUsecases.NewGetOrderUseCase(repos.orderRepo, log),
		listOrders:        orderUsecases.NewListOrdersUseCase(repos.orderRepo, log),
		updateOrderStatus: orderUsecases.NewUpdateOrderStatusUseCase(repos.orderRepo, repos.txManager, log),

		revenueReport: reportUsecases.NewGetRevenueReportUseCase(repos.orderRepo, log),
		exportReport:  reportUsecases.NewExportRevenueReportUseCase(repos.orderRepo, svcs.renderer, log),
	}
	ucs.mailReport = reportUsecases.NewMailRevenueReportUseCase(ucs.exportReport, svcs.mailer, c.cfg.Report.MailRecipients, log)

	c.ucs = ucs
}
