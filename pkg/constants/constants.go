package constants

import "time"

// Queue message types.
const (
	QueueMessageTypePlagiarism = "plagiarism"
	QueueMessageTypeHandshake  = "handshake"
)

// Toolchain execution.
const (
	// ToolchainProcessExitTimeout bounds every toolchain invocation. The child is killed when it elapses.
	ToolchainProcessExitTimeout = 5000 * time.Millisecond
	// ToolchainStreamGracePeriod is how long each output reader may lag behind process exit.
	ToolchainStreamGracePeriod = 100 * time.Millisecond
)

// Toolchain arguments used by the language detectors.
const (
	JavaDisassemblerAdditionalArguments = "-c -p"
	CSharpCompilerAdditionalArguments   = "/optimize+ /nologo /reference:System.Numerics.dll /reference:PowerCollections.dll"
	CPlusPlusCompilerAdditionalArgument = "-O2"
	ObjdumpAdditionalArguments          = "--no-show-raw-insn"
)

// File extensions.
const (
	JavaSourceExtension      = ".java"
	JavaClassExtension       = ".class"
	CSharpSourceExtension    = ".cs"
	CPlusPlusSourceExtension = ".cpp"
	DisassemblyExtension     = ".txt"
	IntermediateLangExt      = ".il"
	WindowsExecutableExt     = ".exe"
	UnixExecutableExt        = ".out"
)

// Configuration constants.
const (
	DefaultRabbitmqHost            = "localhost"
	DefaultRabbitmqUser            = "guest"
	DefaultRabbitmqPassword        = "guest"
	DefaultRabbitmqPort            = "5672"
	DefaultRabbitmqPublishChanSize = 100
	DefaultWorkerQueueName         = "anticheat_queue"
	DefaultResponseQueueName       = "anticheat_response_queue"
	DefaultMaxWorkers              = 4
	DefaultEnabledLanguages        = "JAVA"
	RabbitMQReconnectTries         = 10
	RabbitMQReconnectBackoff       = 2 * time.Second
	RabbitMQMaxPriority            = 3
)

// Environment variable names of the toolchain paths.
const (
	EnvJavaCompilerPath       = "JAVA_COMPILER_PATH"
	EnvJavaDisassemblerPath   = "JAVA_DISASSEMBLER_PATH"
	EnvCSharpCompilerPath     = "CSHARP_COMPILER_PATH"
	EnvDotNetDisassemblerPath = "DOTNET_DISASSEMBLER_PATH"
	EnvCPlusPlusCompilerPath  = "CPP_COMPILER_PATH"
	EnvObjdumpPath            = "CPP_DISASSEMBLER_PATH"
)

// Binaries looked up on PATH when a toolchain path is not configured.
const (
	DefaultJavaCompiler       = "javac"
	DefaultJavaDisassembler   = "javap"
	DefaultCSharpCompiler     = "csc"
	DefaultDotNetDisassembler = "ildasm"
	DefaultCPlusPlusCompiler  = "g++"
	DefaultObjdump            = "objdump"
)
