package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/application"
	interfaces "github.com/zakoken/zkkd/internal/interfaces"
	httphandler "github.com/zakoken/zkkd/internal/interfaces/http/handler"
	"github.com/zakoken/zkkd/internal/interfaces/http/middleware"
	"github.com/zakoken/zkkd/pkg/jwtutil"
	"github.com/zakoken/zkkd/pkg/stats"
)

const (
	// Issuer is the issuer of the bearer tokens.
	Issuer = "zkkd"

	shutdownTimeout = 5 * time.Second
	gaugeTimeout    = 5 * time.Second
)

type ServiceOpts struct {
	Port      int
	JWTSecret string
	Info      httphandler.Info
	Roles     application.Roles

	LedgerSvc    application.LedgerService
	MintSvc      application.MintService
	TransportSvc application.TransportService
	ExchangeSvc  application.ExchangeService
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}
	if len(o.JWTSecret) <= 0 {
		return jwtutil.ErrMissingSecret
	}
	if o.LedgerSvc == nil {
		return fmt.Errorf("ledger app service must not be null")
	}
	if o.MintSvc == nil {
		return fmt.Errorf("mint app service must not be null")
	}
	if o.TransportSvc == nil {
		return fmt.Errorf("transport app service must not be null")
	}
	if o.ExchangeSvc == nil {
		return fmt.Errorf("exchange app service must not be null")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	router, err := NewRouter(opts)
	if err != nil {
		return nil, err
	}
	registerGauges(opts)

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	errC := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	// Fail fast if the port can't be bound.
	select {
	case err := <-errC:
		return err
	case <-time.After(100 * time.Millisecond):
	}

	log.Infof("http interface is listening on %s", s.server.Addr)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
		return
	}
	log.Debug("http interface stopped")
}

// NewRouter returns the gin engine serving every route of the daemon.
func NewRouter(opts ServiceOpts) (*gin.Engine, error) {
	signer, err := jwtutil.NewSigner(opts.JWTSecret, Issuer)
	if err != nil {
		return nil, err
	}

	decimals := httphandler.Decimals{
		Token:      opts.Info.TokenDecimals,
		Collateral: opts.Info.CollateralDecimals,
	}
	ledgerHandler := httphandler.NewLedgerHandler(opts.LedgerSvc, decimals)
	mintHandler := httphandler.NewMintHandler(opts.MintSvc)
	transportHandler := httphandler.NewTransportHandler(opts.TransportSvc)
	exchangeHandler := httphandler.NewExchangeHandler(opts.ExchangeSvc, decimals)
	authHandler := httphandler.NewAuthHandler(signer, opts.Roles)
	infoHandler := httphandler.NewInfoHandler(opts.Info, opts.Roles)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.Auth(signer),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.GET("/info", infoHandler.GetInfo)
	v1.POST("/auth/tokens", authHandler.IssueToken)

	v1.POST("/mint", mintHandler.MintWithCompose)
	v1.GET("/mints", mintHandler.ListMints)
	v1.GET("/mints/:ref", mintHandler.GetMintRecord)

	v1.GET("/accounts", ledgerHandler.ListAccounts)
	v1.GET("/accounts/:address", ledgerHandler.BalanceOf)
	v1.GET("/supply", ledgerHandler.TotalSupply)
	v1.POST("/approve", ledgerHandler.Approve)
	v1.GET("/allowances/:owner/:spender", ledgerHandler.Allowance)
	v1.POST("/transfer", ledgerHandler.Transfer)
	v1.POST("/transfer-from", ledgerHandler.TransferFrom)

	v1.POST("/peers", transportHandler.SetPeer)
	v1.GET("/peers", transportHandler.ListPeers)
	v1.POST("/transport/send", transportHandler.Send)
	v1.POST("/transport/receive", transportHandler.Receive)
	v1.GET("/transport/messages", transportHandler.ListMessages)
	v1.GET("/transport/messages/:id", transportHandler.GetMessage)

	v1.POST("/collateral/deposit", exchangeHandler.DepositCollateral)
	v1.POST("/collateral/withdraw", exchangeHandler.WithdrawCollateral)
	v1.GET("/collateral", exchangeHandler.GetAvailableCollateral)
	v1.GET("/exchange", exchangeHandler.GetExchangeInfo)
	v1.GET("/exchange/quote", exchangeHandler.GetOutputAmount)
	v1.GET("/exchange/can-redeem", exchangeHandler.CanRedeem)
	v1.POST("/exchange/redeem", exchangeHandler.Redeem)
	v1.POST("/exchange/pause", exchangeHandler.Pause)
	v1.POST("/exchange/resume", exchangeHandler.Resume)
	v1.POST("/exchange/rate", exchangeHandler.SetExchangeRate)
	v1.GET("/exchange/redemptions", exchangeHandler.ListRedemptions)

	return r, nil
}

func registerGauges(opts ServiceOpts) {
	gauges := []struct {
		name string
		help string
		fn   func(ctx context.Context) (uint64, error)
	}{
		{
			"total_supply", "Circulating supply of the token in base units",
			func(ctx context.Context) (uint64, error) {
				supply, err := opts.LedgerSvc.TotalSupply(ctx)
				if err != nil {
					return 0, err
				}
				return supply.Total(), nil
			},
		},
		{
			"available_collateral", "Collateral available in the vault",
			opts.ExchangeSvc.GetAvailableCollateral,
		},
	}

	for _, g := range gauges {
		g := g
		if err := stats.RegisterGauge(g.name, g.help, func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), gaugeTimeout)
			defer cancel()
			v, err := g.fn(ctx)
			if err != nil {
				log.WithError(err).Debugf("failed to compute %s gauge", g.name)
				return 0
			}
			return float64(v)
		}); err != nil {
			log.WithError(err).Warnf("failed to register %s gauge", g.name)
		}
	}
}
