package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort     string `envconfig:"HTTP_PORT"     default:":3000"`
	MongoURI     string `envconfig:"MONGO_URI"     default:"mongodb://localhost:27017"`
	MongoDB      string `envconfig:"MONGO_DB"      default:"catalog_db"`
	UploadDir    string `envconfig:"UPLOAD_DIR"    default:"public/uploads"`
	PublicPrefix string `envconfig:"PUBLIC_PREFIX" default:"/public/uploads/"`
	GalleryLimit int    `envconfig:"GALLERY_LIMIT" default:"3"`
	LogLevel     string `envconfig:"LOG_LEVEL"     default:"info"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		if err := envconfig.Process("", &config); err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: HTTPPort=%s, MongoDB=%s, UploadDir=%s, GalleryLimit=%d",
			config.HTTPPort, config.MongoDB, config.UploadDir, config.GalleryLimit)
	})
	return &config
}
