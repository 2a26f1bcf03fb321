package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Activity-Feed/internal/feed"
	"github.com/Guyuepp/Go-Activity-Feed/internal/repository"
	mysqlRepo "github.com/Guyuepp/Go-Activity-Feed/internal/repository/mysql"
	myRedis "github.com/Guyuepp/Go-Activity-Feed/internal/repository/redis"
	"github.com/Guyuepp/Go-Activity-Feed/internal/rest"
	"github.com/Guyuepp/Go-Activity-Feed/internal/rest/middleware"
	"github.com/Guyuepp/Go-Activity-Feed/internal/rest/request"
	"github.com/Guyuepp/Go-Activity-Feed/internal/usecase/activity"
	"github.com/Guyuepp/Go-Activity-Feed/internal/workers"
)

const (
	defaultTimeout     = 30
	defaultAddress     = ":9090"
	defaultCacheDB     = 0
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2

	resubscribeMaxRetry = 5
	resubscribeInterval = 3 * time.Second
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Asia/Jakarta")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < dbMaxRetry; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare the change bus
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the redis connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to redis", err)
		return
	}

	// prepare gin
	request.RegisterCustomValidations()
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prepare Repository
	// 1. Store层
	activityStore := mysqlRepo.NewActivityStore(db)
	// 2. 变更通知层
	notifier := myRedis.NewFeedNotifier(client)
	notifyWorker := workers.NewNotifyWorker(notifier)
	go notifyWorker.Start(ctx)
	// 3. Repository协调层
	activityRepo := repository.NewActivityRepository(activityStore, notifyWorker)

	// The feed view: one read-model per mounted view; this process hosts
	// one canonical view that every streaming client shares.
	readModel := feed.NewReadModel()
	manager := feed.NewManager(activityStore, notifier)

	sub, err := manager.Subscribe(ctx, readModel.ApplySnapshot)
	if err != nil {
		log.Fatal("failed to open feed subscription: ", err)
	}
	defer sub.Unsubscribe()

	// Boundary-level resubscribe policy: bounded retries with a delay, not
	// an infinite loop inside the engine.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Done():
			}

			resubscribed := false
			for i := 0; i < resubscribeMaxRetry; i++ {
				select {
				case <-ctx.Done():
					return
				case <-time.After(resubscribeInterval):
				}

				newSub, err := manager.Subscribe(ctx, readModel.ApplySnapshot)
				if err != nil {
					log.Printf("failed to resubscribe feed (attempt %d/%d): %v", i+1, resubscribeMaxRetry, err)
					continue
				}
				sub = newSub
				resubscribed = true
				break
			}
			if !resubscribed {
				log.Println("giving up on feed resubscription")
				return
			}
		}
	}()

	// Build service Layer
	activitySvc := activity.NewService(activityRepo, readModel)
	activityHandler := rest.NewActivityHandler(activitySvc)
	feedHandler := rest.NewFeedHandler(readModel)

	identity := middleware.Identity()

	// Register routes
	route.GET("/feed", feedHandler.State)
	route.GET("/feed/stream", feedHandler.Stream)

	authorized := route.Group("/")
	authorized.Use(identity)
	{
		authorized.POST("/activities", activityHandler.Post)
		authorized.DELETE("/activities/:id", activityHandler.Delete)
		authorized.POST("/activities/:id/like", activityHandler.Like)
		authorized.POST("/activities/:id/comments", activityHandler.CreateComment)
		authorized.POST("/feed/activities/:id/expanded", feedHandler.ToggleExpanded)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for worker to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
