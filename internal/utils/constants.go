package utils

// Configuration file locations.
const (
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".treecontent.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".treecontent"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
)

const (
	// LoggerInitializationFailedMessageFormat is used when the logger cannot be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal top-level errors.
	ApplicationExecutionFailedMessage = "Error"
)
