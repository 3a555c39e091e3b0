package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	celebModel "celebhub-backend/internal/domains/celebrity/model"
	onboardingModel "celebhub-backend/internal/domains/onboarding/model"
	submissionModel "celebhub-backend/internal/domains/submission/model"
	userModel "celebhub-backend/internal/domains/user/model"

	"celebhub-backend/internal/config"
	"celebhub-backend/internal/infrastructure/database"
	"celebhub-backend/internal/store"
	"celebhub-backend/internal/store/memstore"
	mongostore "celebhub-backend/internal/store/mongo"
	pgstore "celebhub-backend/internal/store/postgres"
	pkgdb "celebhub-backend/pkg/database"
)

// Stores holds one repository per entity kind, all on the same backend
type Stores struct {
	Backend     string
	Users       store.Repository[*userModel.User]
	Celebrities store.Repository[*celebModel.Celebrity]
	Submissions store.Repository[*submissionModel.Submission]
	Onboarding  store.Repository[*onboardingModel.Registration]

	postgres *database.PostgresDB
	mongo    *database.MongoDB
}

// OpenStores connects to backend and builds the repositories. The schema
// (postgres) or indexes (mongo) are ensured on the way.
func OpenStores(ctx context.Context, cfg *config.Config, backend string) (*Stores, error) {
	s := &Stores{Backend: backend}

	switch backend {
	case config.BackendPostgres:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database config: %w", err)
		}
		db := database.NewPostgresDB(dbConfig)
		if err := db.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.postgres = db
		// DDL is transactional in postgres; a failed bootstrap leaves nothing behind
		err = pkgdb.WithTransaction(ctx, db.Pool, func(tx pgx.Tx) error {
			return pgstore.EnsureSchema(ctx, tx)
		})
		if err != nil {
			s.Close(ctx)
			return nil, err
		}

	case config.BackendMongo:
		m := database.NewMongoDB(database.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err := m.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		s.mongo = m

	case config.BackendMemory:
		log.Warn().Msg("[STORE] using the in-memory store; data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}

	var err error
	if s.Users, err = repository(ctx, s, userModel.Schema); err != nil {
		return nil, s.fail(ctx, err)
	}
	if s.Celebrities, err = repository(ctx, s, celebModel.Schema); err != nil {
		return nil, s.fail(ctx, err)
	}
	if s.Submissions, err = repository(ctx, s, submissionModel.Schema); err != nil {
		return nil, s.fail(ctx, err)
	}
	if s.Onboarding, err = repository(ctx, s, onboardingModel.Schema); err != nil {
		return nil, s.fail(ctx, err)
	}

	log.Info().Str("backend", backend).Msg("[STORE] repositories ready")
	return s, nil
}

// repository builds the schema's repository on whichever backend s holds
func repository[T store.Entity](ctx context.Context, s *Stores, schema store.Schema[T]) (store.Repository[T], error) {
	switch {
	case s.postgres != nil:
		return pgstore.New(s.postgres.Pool, schema), nil
	case s.mongo != nil:
		r := mongostore.New(s.mongo.DB, schema)
		if err := r.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return memstore.New(schema), nil
	}
}

// Ping checks the backend connection
func (s *Stores) Ping(ctx context.Context) error {
	switch {
	case s.postgres != nil:
		return s.postgres.HealthCheck(ctx)
	case s.mongo != nil:
		return s.mongo.Ping(ctx)
	}
	return nil
}

func (s *Stores) fail(ctx context.Context, err error) error {
	s.Close(ctx)
	return err
}

// Close releases the backend connection
func (s *Stores) Close(ctx context.Context) {
	if s.postgres != nil {
		s.postgres.Close()
	}
	if s.mongo != nil {
		closeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s.mongo.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("[MONGO] disconnect failed")
		}
	}
}
