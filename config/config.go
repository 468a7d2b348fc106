package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type StorageConfig struct {
	// Driver selects the persistence backend: "mongo" or "memory".
	// Memory keeps everything in-process, like the original prototype.
	Driver string `mapstructure:"driver"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Mobile   string `mapstructure:"mobile"`
	Password string `mapstructure:"password"`
}

type CheckoutConfig struct {
	// PaymentDelay is how long the simulated payment step takes.
	PaymentDelay string `mapstructure:"paymentDelay"`
	// PaymentTimeout bounds the payment step; hitting it fails the checkout.
	PaymentTimeout string `mapstructure:"paymentTimeout"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	S3       S3Config       `mapstructure:"s3"`
}

// LoadConfig reads the YAML config file and overlays environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("storage.driver", "STORAGE_DRIVER")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("admin.name", "ADMIN_NAME")
	viper.BindEnv("admin.mobile", "ADMIN_MOBILE")
	viper.BindEnv("admin.password", "ADMIN_PASSWORD")
	viper.BindEnv("checkout.paymentDelay", "CHECKOUT_PAYMENT_DELAY")
	viper.BindEnv("checkout.paymentTimeout", "CHECKOUT_PAYMENT_TIMEOUT")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("storage.driver", "mongo")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("admin.name", "Marketplace Admin")
	viper.SetDefault("checkout.paymentDelay", "500ms")
	viper.SetDefault("checkout.paymentTimeout", "5s")

	// A missing file is fine; environment variables still apply.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
