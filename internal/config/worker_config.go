package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/mini-maxit/anticheat/internal/logger"
	"github.com/mini-maxit/anticheat/pkg/constants"
	"github.com/mini-maxit/anticheat/pkg/languages"
)

// Toolchain holds the executables a language pipeline runs.
type Toolchain struct {
	CompilerPath     string
	DisassemblerPath string
}

type Config struct {
	RabbitMQURL       string
	PublishChanSize   int
	ConsumeQueueName  string
	ResponseQueueName string
	MaxWorkers        int
	EnabledLanguages  []languages.LanguageType
	Toolchains        map[languages.LanguageType]Toolchain
}

func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		if os.Getenv("ENV") == "PROD" {
			logger.Warn(".env file detected in production environment. This is not recommended.")
		}
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	rabbitmqURL, publishChanSize := rabbitmqConfig()
	workerQueueName, responseQueueName, maxWorkers := workerConfig()
	enabledLanguages := languagesConfig()

	return &Config{
		RabbitMQURL:       rabbitmqURL,
		PublishChanSize:   publishChanSize,
		ConsumeQueueName:  workerQueueName,
		ResponseQueueName: responseQueueName,
		MaxWorkers:        int(maxWorkers),
		EnabledLanguages:  enabledLanguages,
		Toolchains:        toolchainConfig(enabledLanguages),
	}
}

func rabbitmqConfig() (string, int) {
	logger := logger.NewNamedLogger("config")

	rabbitmqHost := os.Getenv("RABBITMQ_HOST")
	if rabbitmqHost == "" {
		rabbitmqHost = constants.DefaultRabbitmqHost
		logger.Warnf("RABBITMQ_HOST is not set, using default value %s", constants.DefaultRabbitmqHost)
	}
	rabbitmqPortStr := os.Getenv("RABBITMQ_PORT")
	if rabbitmqPortStr == "" {
		rabbitmqPortStr = constants.DefaultRabbitmqPort
		logger.Warnf("RABBITMQ_PORT is not set, using default value %s", constants.DefaultRabbitmqPort)
	}
	rabbitmqPort, err := strconv.ParseUint(rabbitmqPortStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse RABBITMQ_PORT with error: %v", err)
	}
	rabbitmqUser := os.Getenv("RABBITMQ_USER")
	if rabbitmqUser == "" {
		rabbitmqUser = constants.DefaultRabbitmqUser
		logger.Warnf("RABBITMQ_USER is not set, using default value %s", constants.DefaultRabbitmqUser)
	}
	rabbitmqPassword := os.Getenv("RABBITMQ_PASSWORD")
	if rabbitmqPassword == "" {
		rabbitmqPassword = constants.DefaultRabbitmqPassword
		logger.Warnf("RABBITMQ_PASSWORD is not set, using default value %s", constants.DefaultRabbitmqPassword)
	}
	publishChanSize := constants.DefaultRabbitmqPublishChanSize
	publishChanSizeStr := os.Getenv("RABBITMQ_PUBLISH_CHAN_SIZE")
	if publishChanSizeStr == "" {
		logger.Warnf("RABBITMQ_PUBLISH_CHAN_SIZE is not set, using default value %d",
			constants.DefaultRabbitmqPublishChanSize)
	} else {
		publishChanSize, err = strconv.Atoi(publishChanSizeStr)
		if err != nil {
			logger.Fatalf("failed to parse RABBITMQ_PUBLISH_CHAN_SIZE with error: %v", err)
		}
	}

	rabbitmqURL := fmt.Sprintf("amqp://%s:%s@%s:%d/", rabbitmqUser, rabbitmqPassword, rabbitmqHost, rabbitmqPort)

	return rabbitmqURL, publishChanSize
}

func workerConfig() (string, string, int64) {
	logger := logger.NewNamedLogger("config")

	workerQueueName := os.Getenv("WORKER_QUEUE_NAME")
	if workerQueueName == "" {
		workerQueueName = constants.DefaultWorkerQueueName
		logger.Warnf("WORKER_QUEUE_NAME is not set, using default value %s", constants.DefaultWorkerQueueName)
	}
	responseQueueName := os.Getenv("RESPONSE_QUEUE_NAME")
	if responseQueueName == "" {
		responseQueueName = constants.DefaultResponseQueueName
		logger.Warnf("RESPONSE_QUEUE_NAME is not set, using default value %s", constants.DefaultResponseQueueName)
	}
	var maxWorkers int64
	var err error
	maxWorkersStr := os.Getenv("MAX_WORKERS")
	if maxWorkersStr == "" {
		maxWorkers = constants.DefaultMaxWorkers
		logger.Warnf("MAX_WORKERS is not set, using default value %d", constants.DefaultMaxWorkers)
	} else {
		maxWorkers, err = strconv.ParseInt(maxWorkersStr, 10, 8)
		if err != nil {
			logger.Fatalf("failed to parse MAX_WORKERS with error: %v", err)
		}
		if maxWorkers < 1 {
			logger.Fatalf("MAX_WORKERS must be positive, got %d", maxWorkers)
		}
	}

	return workerQueueName, responseQueueName, maxWorkers
}

func languagesConfig() []languages.LanguageType {
	logger := logger.NewNamedLogger("config")

	enabledLanguagesStr := os.Getenv("ENABLED_LANGUAGES")
	if enabledLanguagesStr == "" {
		enabledLanguagesStr = constants.DefaultEnabledLanguages
		logger.Warnf("ENABLED_LANGUAGES is not set, using default value %s", constants.DefaultEnabledLanguages)
	}
	enabledLanguages, err := languages.ParseLanguageList(enabledLanguagesStr)
	if err != nil {
		logger.Fatalf("failed to parse ENABLED_LANGUAGES %q with error: %v", enabledLanguagesStr, err)
	}
	if len(enabledLanguages) == 0 {
		logger.Fatalf("ENABLED_LANGUAGES must name at least one language")
	}

	return enabledLanguages
}

// toolchainConfig resolves the executables of every enabled language. A path that is neither
// configured nor found on PATH is fatal.
func toolchainConfig(enabledLanguages []languages.LanguageType) map[languages.LanguageType]Toolchain {
	toolchains := make(map[languages.LanguageType]Toolchain, len(enabledLanguages))
	for _, lang := range enabledLanguages {
		switch lang {
		case languages.JAVA:
			toolchains[lang] = Toolchain{
				CompilerPath:     toolchainPath(constants.EnvJavaCompilerPath, constants.DefaultJavaCompiler),
				DisassemblerPath: toolchainPath(constants.EnvJavaDisassemblerPath, constants.DefaultJavaDisassembler),
			}
		case languages.CSHARP:
			toolchains[lang] = Toolchain{
				CompilerPath:     toolchainPath(constants.EnvCSharpCompilerPath, constants.DefaultCSharpCompiler),
				DisassemblerPath: toolchainPath(constants.EnvDotNetDisassemblerPath, constants.DefaultDotNetDisassembler),
			}
		case languages.CPP:
			toolchains[lang] = Toolchain{
				CompilerPath:     toolchainPath(constants.EnvCPlusPlusCompilerPath, constants.DefaultCPlusPlusCompiler),
				DisassemblerPath: toolchainPath(constants.EnvObjdumpPath, constants.DefaultObjdump),
			}
		}
	}
	return toolchains
}

func toolchainPath(envName, binary string) string {
	logger := logger.NewNamedLogger("config")

	if path := os.Getenv(envName); path != "" {
		return path
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		logger.Fatalf("%s is not set and %s was not found on PATH", envName, binary)
	}
	logger.Warnf("%s is not set, using %s found on PATH", envName, path)
	return path
}
