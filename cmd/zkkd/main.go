package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/config"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
	httpmessenger "github.com/zakoken/zkkd/internal/infrastructure/messenger/http"
	kafkamessenger "github.com/zakoken/zkkd/internal/infrastructure/messenger/kafka"
	fileregistry "github.com/zakoken/zkkd/internal/infrastructure/registry/file"
	postgresdb "github.com/zakoken/zkkd/internal/infrastructure/storage/db/pg"
	httpinterface "github.com/zakoken/zkkd/internal/interfaces/http"
	httphandler "github.com/zakoken/zkkd/internal/interfaces/http/handler"
	"github.com/zakoken/zkkd/pkg/stats"
	"golang.org/x/sync/errgroup"
)

const requestTimeout = 10 * time.Second

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	if err := run(ctx); err != nil {
		log.WithError(err).Fatal("daemon exited with error")
	}
	log.Info("exiting")
}

func run(ctx context.Context) error {
	datadir := config.GetDatadir()
	network := config.GetString(config.NetworkKey)
	localDomain := config.GetDomainID()
	roles := config.GetRoles()
	messengerType := config.GetString(config.MessengerTypeKey)

	var registry ports.Registry
	if dir := config.GetString(config.RegistryDirKey); len(dir) > 0 {
		r, err := fileregistry.NewRegistry(dir)
		if err != nil {
			return err
		}
		registry = r
	}

	localAddress, err := resolveLocalAddress(registry, network)
	if err != nil {
		return err
	}

	messenger, err := newMessenger(messengerType)
	if err != nil {
		return err
	}

	appConfig := &application.Config{
		DBType:          config.GetString(config.DBTypeKey),
		DBConfig:        dbConfig(),
		Roles:           roles,
		LocalDomain:     localDomain,
		LocalAddress:    localAddress,
		ProjectTag:      config.GetString(config.ProjectTagKey),
		CollateralAsset: config.GetString(config.CollateralAssetKey),
		ExchangeRate:    config.GetUint64(config.ExchangeRateKey),
		Messenger:       messenger,
		RelayerConfig: application.RelayerConfig{
			Interval:  config.GetRelayInterval(),
			RateLimit: config.GetInt(config.RelayRateLimitKey),
			BatchSize: config.GetInt(config.RelayBatchSizeKey),
			OnDelivery: func(message domain.Message, err error) {
				stats.RecordDelivery(message.DstDomain, err)
			},
		},
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}
	repoManager := appConfig.RepoManager()
	defer repoManager.Close()
	if messenger != nil {
		defer messenger.Close()
	}

	transportSvc := appConfig.TransportService()
	if config.GetBool(config.AutoPeersKey) {
		if err := configurePeers(
			ctx, transportSvc, registry, roles.Operator,
			config.GetStringSlice(config.PeerNetworksKey),
		); err != nil {
			return err
		}
	}

	secret := config.GetString(config.JWTSecretKey)
	if err := writeTokens(
		secret, filepath.Join(datadir, config.TokensLocation), roles,
	); err != nil {
		return err
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:      config.GetInt(config.ListeningPortKey),
		JWTSecret: secret,
		Info: httphandler.Info{
			Network:            network,
			DomainID:           localDomain,
			LocalAddress:       localAddress,
			ProjectTag:         config.GetString(config.ProjectTagKey),
			CollateralAsset:    config.GetString(config.CollateralAssetKey),
			TokenDecimals:      int32(config.GetInt(config.TokenDecimalsKey)),
			CollateralDecimals: int32(config.GetInt(config.CollateralDecimalsKey)),
			Messenger:          messengerType,
		},
		Roles:        roles,
		LedgerSvc:    appConfig.LedgerService(),
		MintSvc:      appConfig.MintService(),
		TransportSvc: transportSvc,
		ExchangeSvc:  appConfig.ExchangeService(),
	})
	if err != nil {
		return err
	}

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(
			ctx, interval, filepath.Join(datadir, config.ProfilerLocation),
		)
	}

	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()

	log.WithFields(log.Fields{
		"network":   network,
		"domain":    localDomain,
		"address":   localAddress,
		"messenger": messengerType,
	}).Info("zkkd started")

	g, gctx := errgroup.WithContext(ctx)
	if relayer := appConfig.Relayer(); relayer != nil {
		g.Go(func() error {
			return relayer.Start(gctx)
		})
	}
	if messengerType == config.MessengerKafka {
		consumer, err := kafkamessenger.NewConsumer(
			config.GetStringSlice(config.KafkaBrokersKey),
			config.GetString(config.KafkaTopicPrefixKey),
			config.GetString(config.KafkaGroupIDKey),
			localDomain,
			func(ctx context.Context, m domain.Message) error {
				return transportSvc.Receive(
					ctx, roles.Relayer, application.InboundMessageFromDomain(m),
				)
			},
		)
		if err != nil {
			return err
		}
		defer consumer.Close()
		g.Go(func() error {
			return consumer.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	return g.Wait()
}

func dbConfig() interface{} {
	switch config.GetString(config.DBTypeKey) {
	case application.DBPostgres:
		return postgresdb.DbConfig{
			DataSourceURL:      config.GetString(config.PgConnectAddr),
			MigrationSourceURL: config.GetString(config.PgMigrationSource),
		}
	case application.DBBadger:
		return filepath.Join(config.GetDatadir(), config.DbLocation)
	default:
		return nil
	}
}

func newMessenger(messengerType string) (ports.Messenger, error) {
	switch messengerType {
	case config.MessengerHTTP:
		return httpmessenger.NewMessenger(
			config.GetPeerEndpoints(), config.GetPeerTokens(), requestTimeout,
		)
	case config.MessengerKafka:
		return kafkamessenger.NewMessenger(
			config.GetStringSlice(config.KafkaBrokersKey),
			config.GetString(config.KafkaTopicPrefixKey),
		)
	default:
		log.Warn("no messenger configured, outbound messages won't be relayed")
		return nil, nil
	}
}

// resolveLocalAddress returns the configured local address or the token
// address of the network deployment.
func resolveLocalAddress(registry ports.Registry, network string) (string, error) {
	if addr := config.GetString(config.LocalAddressKey); len(addr) > 0 {
		return addr, nil
	}
	if registry == nil {
		return "", fmt.Errorf("missing local address")
	}
	deployment, err := registry.GetDeployment(network)
	if err != nil {
		return "", fmt.Errorf("failed to resolve local address: %w", err)
	}
	return deployment.GetTokenAddress(), nil
}

// configurePeers sets the token deployed on every given network as peer.
func configurePeers(
	ctx context.Context, transportSvc application.TransportService,
	registry ports.Registry, operator string, networks []string,
) error {
	if registry == nil {
		return fmt.Errorf("missing deployment registry")
	}
	for _, network := range networks {
		deployment, err := registry.GetDeployment(network)
		if err != nil {
			return fmt.Errorf("failed to configure peer for %s: %w", network, err)
		}
		if err := transportSvc.SetPeer(
			ctx, operator, deployment.GetEndpointID(), deployment.GetTokenAddress(),
		); err != nil {
			return fmt.Errorf("failed to configure peer for %s: %w", network, err)
		}
	}
	return nil
}
