package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-product-catalog/config"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
	"github.com/oksasatya/go-product-catalog/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router modules are wired from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       repository.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config)       { cfg = c }
func GetConfig() *config.Config        { return cfg }
func SetLogger(l *logrus.Logger)       { logger = l }
func GetLogger() *logrus.Logger        { return logger }
func SetStore(s repository.Store)      { store = s }
func GetStore() repository.Store       { return store }
func SetRedis(r *redis.Client)         { redisClient = r }
func GetRedis() *redis.Client          { return redisClient }
func SetGCS(s *storage.Client)         { gcsClient = s }
func GetGCS() *storage.Client          { return gcsClient }
func SetJWT(m *helpers.JWTManager)     { jwtManager = m }
func GetJWT() *helpers.JWTManager      { return jwtManager }
func SetES(c *elasticsearch.Client)    { esClient = c }
func GetES() *elasticsearch.Client     { return esClient }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }

// GetRabbitPub returns nil when no publisher was set. A nil
// *RabbitPublisher must not be stored in an interface, so callers check it.
func GetRabbitPub() *helpers.RabbitPublisher { return rabbitPub }
