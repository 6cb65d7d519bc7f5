package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"cinda/internal/config"
	"cinda/internal/database"
	"cinda/internal/database/migration"
	"cinda/internal/database/migrations"
	dbpostgres "cinda/internal/database/postgres"
	"cinda/internal/domain/course"
	"cinda/internal/domain/mentorship"
	"cinda/internal/domain/opportunity"
	"cinda/internal/domain/user"
	"cinda/internal/infrastructure/cache"
	"cinda/internal/infrastructure/persistence/memory"
	"cinda/internal/infrastructure/persistence/mongodb"
	"cinda/internal/infrastructure/persistence/postgres"
	"cinda/internal/pkg/jwt"
	"cinda/internal/pkg/keyedqueue"
	"cinda/internal/usecase"
	uccourse "cinda/internal/usecase/course"
	ucmentorship "cinda/internal/usecase/mentorship"
	ucopportunity "cinda/internal/usecase/opportunity"
	ucsearch "cinda/internal/usecase/search"
	"cinda/internal/ws"
)

type Repositories struct {
	Users         user.Repository
	Courses       course.Repository
	Opportunities opportunity.Repository
	Mentorships   mentorship.Repository
}

type Container struct {
	Config config.Config
	Logger *slog.Logger

	DB    database.DB
	Mongo *mongo.Client
	Redis *cache.Redis

	Repos Repositories
	JWT   jwt.Service
	Queue *keyedqueue.Queue
	Hub   *ws.Hub

	Auth          *usecase.Auth
	Users         *usecase.User
	Courses       *uccourse.Service
	Opportunities *ucopportunity.Service
	Mentorships   *ucmentorship.Service
	Search        *ucsearch.Service

	stopHub context.CancelFunc
}

func NewContainer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}
	c.Redis = cache.NewRedis(ctx, cfg.Redis, logger)
	c.wire()

	return c, nil
}

// NewContainerWithRepos wires the usecases over caller supplied repositories
// with caching disabled.
func NewContainerWithRepos(cfg config.Config, repos Repositories, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger, Repos: repos}
	c.wire()
	return c
}

func (c *Container) openStore(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, 2*c.storeTimeout())
	defer cancel()

	timeout := c.storeTimeout()
	switch c.Config.Store.Driver {
	case config.StoreDriverMongo:
		client, db, err := mongodb.Connect(connectCtx, c.Config.Mongo)
		if err != nil {
			return err
		}
		if err := mongodb.EnsureIndexes(connectCtx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		c.Mongo = client
		c.Repos = Repositories{
			Users:         mongodb.NewUserRepository(db, timeout),
			Courses:       mongodb.NewCourseRepository(db, timeout),
			Opportunities: mongodb.NewOpportunityRepository(db, timeout),
			Mentorships:   mongodb.NewMentorshipRepository(db, timeout),
		}
		c.Logger.Info("store ready", "driver", "mongo", "database", c.Config.Mongo.Database)

	case config.StoreDriverPostgres:
		pool, err := dbpostgres.Connect(connectCtx, c.Config.Database)
		if err != nil {
			return err
		}
		runner := migration.Runner{FS: migrations.FS, Logger: c.Logger.With("component", "migration")}
		if err := runner.Run(connectCtx, pool.SQLDB()); err != nil {
			_ = pool.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		c.DB = pool
		c.Repos = Repositories{
			Users:         postgres.NewUserRepository(pool, timeout),
			Courses:       postgres.NewCourseRepository(pool, timeout),
			Opportunities: postgres.NewOpportunityRepository(pool, timeout),
			Mentorships:   postgres.NewMentorshipRepository(pool, timeout),
		}
		c.Logger.Info("store ready", "driver", "postgres", "host", c.Config.Database.DBHost)

	case config.StoreDriverMemory:
		store := memory.NewStore()
		c.Repos = Repositories{
			Users:         store.Users,
			Courses:       store.Courses,
			Opportunities: store.Opportunities,
			Mentorships:   store.Mentorships,
		}
		c.Logger.Warn("store ready, data will not survive a restart", "driver", "memory")

	default:
		return fmt.Errorf("unknown store driver %q", c.Config.Store.Driver)
	}
	return nil
}

func (c *Container) storeTimeout() time.Duration {
	if c.Config.Store.Timeout > 0 {
		return c.Config.Store.Timeout
	}
	return 5 * time.Second
}

func (c *Container) wire() {
	var listCache usecase.Cache = usecase.NopCache{}
	if c.Redis != nil && c.Redis.Available() {
		listCache = c.Redis
	}

	c.JWT = jwt.NewHMACService(
		c.Config.JWT.AccessSecret,
		c.Config.JWT.RefreshSecret,
		c.Config.JWT.AccessExpiresIn,
		c.Config.JWT.RefreshExpiresIn,
	)
	c.Queue = keyedqueue.New(c.Config.Queue.Shards, c.Config.Queue.Buffer)

	c.Hub = ws.NewHub(c.Logger)
	hubCtx, stop := context.WithCancel(context.Background())
	c.stopHub = stop
	go c.Hub.Run(hubCtx)

	c.Auth = usecase.NewAuthUsecase(c.Repos.Users, c.JWT)
	c.Users = usecase.NewUserUsecase(c.Repos.Users)
	c.Courses = uccourse.NewService(c.Repos.Courses, c.Repos.Users, listCache, c.Logger)
	c.Opportunities = ucopportunity.NewService(c.Repos.Opportunities, listCache, c.Logger)
	c.Mentorships = ucmentorship.NewService(c.Repos.Mentorships, c.Repos.Users, c.Queue, ws.NewNotifier(c.Hub), c.Logger)
	c.Search = ucsearch.NewService(c.Repos.Courses, c.Repos.Opportunities, c.Repos.Users)
}

// Close drains queued mentorship writes before releasing the stores.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	if c.Queue != nil {
		c.Queue.Close()
	}
	if c.stopHub != nil {
		c.stopHub()
	}

	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout())
		errs = append(errs, c.Mongo.Disconnect(ctx))
		cancel()
	}
	return errors.Join(errs...)
}
