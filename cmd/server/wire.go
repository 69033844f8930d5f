package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/config"
	httpapi "github.com/tbourn/sparrow-design-service/internal/http"
	"github.com/tbourn/sparrow-design-service/internal/notify"
	"github.com/tbourn/sparrow-design-service/internal/payments"
	"github.com/tbourn/sparrow-design-service/internal/repo"
)

// buildCollaborators picks the design store, the event notifier and the
// payment verifier from cfg. The returned cleanup flushes the notifier.
func buildCollaborators(ctx context.Context, cfg config.Config, db *gorm.DB) (httpapi.Collaborators, func(), error) {
	var ext httpapi.Collaborators
	cleanup := func() {}

	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		ddb, err := repo.NewDynamoClient(ctx, cfg.Dynamo)
		if err != nil {
			return ext, cleanup, fmt.Errorf("dynamodb client: %w", err)
		}
		ext.Designs = repo.NewDynamoDesignStore(ddb, cfg.Dynamo.Table)
	default:
		ext.Designs = repo.NewSQLDesignStore(db)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kn := notify.NewKafkaNotifier(cfg.Kafka)
		ext.Notifier = kn
		cleanup = func() {
			if err := kn.Close(); err != nil {
				log.Warn().Err(err).Msg("kafka notifier close")
			}
		}
	} else {
		ext.Notifier = notify.LogNotifier{}
	}

	if cfg.Payments.Verify {
		v, err := payments.NewMercadoPagoVerifier(cfg.Payments.AccessToken)
		if err != nil {
			return ext, cleanup, err
		}
		ext.Payments = v
	}
	return ext, cleanup, nil
}
