package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookstore-catalog/internal/config"
	authorHandler "bookstore-catalog/internal/domains/author/handler"
	authorRepo "bookstore-catalog/internal/domains/author/repository"
	authorService "bookstore-catalog/internal/domains/author/service"
	bookHandler "bookstore-catalog/internal/domains/book/handler"
	bookRepo "bookstore-catalog/internal/domains/book/repository"
	bookService "bookstore-catalog/internal/domains/book/service"
	categoryHandler "bookstore-catalog/internal/domains/category/handler"
	categoryRepo "bookstore-catalog/internal/domains/category/repository"
	categoryService "bookstore-catalog/internal/domains/category/service"
	"bookstore-catalog/internal/domains/user"
	userHandler "bookstore-catalog/internal/domains/user/handler"
	userRepo "bookstore-catalog/internal/domains/user/repository"
	userService "bookstore-catalog/internal/domains/user/service"
	infraCache "bookstore-catalog/internal/infrastructure/cache"
	"bookstore-catalog/internal/infrastructure/database"
	"bookstore-catalog/internal/infrastructure/queue"
	"bookstore-catalog/internal/infrastructure/storage"
	"bookstore-catalog/pkg/cache"
	pkgDatabase "bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/jwt"
)

// Container holds every long-lived dependency of the API process.
// Build order: config → infrastructure → repositories → services → handlers.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    storage.Storage
	Media      *storage.MediaStore
	Uploads    *storage.UploadValidator
	Queue      queue.Client
	JWTManager *jwt.Manager
	Tx         pkgDatabase.Transactor

	// Repositories
	AuthorRepo   authorRepo.RepositoryInterface
	CategoryRepo categoryRepo.RepositoryInterface
	BookRepo     bookRepo.RepositoryInterface
	UserRepo     user.Repository

	// Services
	AuthorService   authorService.ServiceInterface
	CategoryService categoryService.ServiceInterface
	BookService     bookService.ServiceInterface
	UserService     user.Service

	// Handlers
	AuthorHandler   *authorHandler.AuthorHandler
	CategoryHandler *categoryHandler.CategoryHandler
	BookHandler     *bookHandler.BookHandler
	UserHandler     *userHandler.UserHandler
}

// NewContainer builds the full dependency graph. Any infrastructure error
// aborts startup except Redis, which the caches tolerate being down.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIG
	// ========================================
	log.Println("📋 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Println("✅ Configuration loaded")

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	log.Println("🐘 Connecting to PostgreSQL...")
	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")
	c.initCache()

	// ========================================
	// STEP 4: MEDIA STORAGE & QUEUE
	// ========================================
	log.Printf("🗄️  Initializing %s storage...", cfg.Storage.Driver)
	if err := c.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	log.Println("✅ Storage ready")

	if cfg.Queue.Enabled {
		c.Queue = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		log.Println("✅ Task queue client ready")
	} else {
		c.Queue = queue.NoopClient{}
		log.Println("⚠️  Task queue disabled, failed media deletions will only be logged")
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	c.Tx = pkgDatabase.NewTransactor(c.DB.Pool)

	// ========================================
	// STEP 5: REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if c.Config.App.AutoMigrate {
		log.Println("🔄 Running migrations...")
		if err := database.MigrateDSN(ctx, dbConfig.DSN()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	return nil
}

func (c *Container) initCache() {
	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}

	c.Cache = redisCache
}

func (c *Container) initStorage() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	backend, err := storage.New(ctx, c.Config)
	if err != nil {
		return err
	}

	c.Storage = backend
	c.Media = storage.NewMediaStore(backend)
	c.Uploads = storage.NewUploadValidator(
		c.Config.Media.CoverMaxKB,
		c.Config.Media.CoverMaxDimension,
		c.Config.Media.PreviewMaxKB,
	)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewService(c.AuthorRepo, c.Cache)
	c.CategoryService = categoryService.NewService(c.CategoryRepo, c.Cache)

	// Book depends on author (inline creation + suggestions) and category lookups
	c.BookService = bookService.NewService(
		c.BookRepo,
		c.AuthorRepo,
		c.AuthorService,
		c.CategoryRepo,
		c.Tx,
		c.Media,
		c.Uploads,
		c.Queue,
		c.Cache,
	)

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
}

// Cleanup releases resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Printf("⚠️  Failed to close queue client: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
