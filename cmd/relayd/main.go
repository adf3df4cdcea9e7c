package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"claimwire/internal/server"
	"claimwire/internal/util/log"
)

func main() {
	var (
		addr      = flag.String("addr", ":7810", "listen address")
		mongoURI  = flag.String("mongo", "mongodb://localhost:27017", "MongoDB URI for the directory")
		mongoDB   = flag.String("db", "claimwire", "MongoDB database name")
		redisAddr = flag.String("redis", "localhost:6379", "Redis address for mailboxes")
		dev       = flag.Bool("dev", false, "in-memory storage, no external services")
		level     = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	if err := log.Init(*level, false); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		directory server.DirectoryStore
		mailbox   server.MailboxStore
	)
	if *dev {
		directory = server.NewMemoryDirectory()
		mailbox = server.NewMemoryMailbox()
		log.Info("using in-memory storage; state is lost on exit")
	} else {
		client, err := initMongo(*mongoURI)
		if err != nil {
			log.Fatal("mongo connect", zap.Error(err))
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		directory = server.NewMongoDirectory(client.Database(*mongoDB))

		rdb := redis.NewClient(&redis.Options{
			Addr:     *redisAddr,
			Password: "", // no password by default
			DB:       0,  // use default DB
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		mailbox = server.NewRedisMailbox(rdb)
	}

	srv := server.New(directory, mailbox)
	log.Info("relayd listening", zap.String("addr", *addr))
	if err := srv.Run(ctx, *addr); err != nil {
		log.Fatal("relayd", zap.Error(err))
	}
}

func initMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return client, client.Ping(ctx, nil)
}
