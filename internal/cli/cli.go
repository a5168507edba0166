// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treecontent/internal/commands"
	"github.com/temirov/treecontent/internal/config"
	"github.com/temirov/treecontent/internal/output"
	"github.com/temirov/treecontent/internal/services/clipboard"
	"github.com/temirov/treecontent/internal/tokenizer"
	"github.com/temirov/treecontent/internal/types"
	"github.com/temirov/treecontent/internal/utils"
)

const (
	contentFlagName   = "content"
	exclusionFlagName = "exclude"
	exclusionFlagAbbr = "e"
	extensionFlagName = "extension"
	extensionFlagAbbr = "x"
	outputDirFlagName = "output-dir"
	configFlagName    = "config"
	copyFlagName      = "copy"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	versionFlagName   = "version"
	globalFlagName    = "global"
	forceFlagName     = "force"

	defaultPath          = "."
	parentDirectory      = ".."
	versionTemplate      = "treecontent version: %s\n"
	rootUse              = "treecontent [path]"
	rootShortDescription = "save a directory tree with inline file contents"
	rootLongDescription  = `treecontent writes the directory tree rooted at path (default: the current directory)
to tree.<YYYYMMDDHHmmss>.txt. Directories named node_modules, .angular, .git, dist and .idea are skipped
together with everything below them. The contents of .html, .ts and .scss files are flattened onto
their tree line. Use --content=false for a plain tree.`
	rootUsageExample = `  # Render the current directory
  treecontent

  # Render ./src without inline contents
  treecontent --content no ./src

  # Also skip coverage directories and inline Markdown files
  treecontent -e coverage -x md .`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.ConfigFileName + ` or, with --global,
to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + `.`

	contentFlagDescription   = "inline the flattened content of eligible files"
	exclusionFlagDescription = "additional directory name to skip"
	extensionFlagDescription = "additional file extension to inline"
	outputDirFlagDescription = "directory receiving the tree file"
	configFlagDescription    = "configuration file to use instead of ./" + utils.ConfigFileName
	copyFlagDescription      = "copy the rendered tree to the clipboard"
	tokensFlagDescription    = "report the token count of the rendered tree"
	modelFlagDescription     = "tokenizer model to use for token counting"
	versionFlagDescription   = "display application version"
	globalFlagDescription    = "write the global configuration file"
	forceFlagDescription     = "overwrite an existing configuration file"

	savedMessageFormat            = "Directory structure saved to %s.\n"
	configurationWrittenFormat    = "Configuration written to %s\n"
	summaryMessageFormat          = "%d directories, %d files, %s"
	summaryUnreadableFormat       = "%d files could not be read"
	summarySkippedFormat          = "%d directories could not be listed"
	copiedMessage                 = "Copied tree to clipboard"
	tokenMessageFormat            = "%d tokens (%s)"
	workingDirectoryErrorFormat   = "unable to determine working directory: %w"
	errorAbsolutePathFormat       = "abs failed for '%s': %w"
	errorRenderFormat             = "rendering %s: %w"
	errorClipboardFormat          = "copying to clipboard: %w"
	errorTokenizerFormat          = "initializing tokenizer: %w"
	errorTokenCountFormat         = "counting tokens in %s: %w"
	warningTokensNotCountedFormat = "tokens not counted for %s: content is not text"
)

// Dependencies are the collaborators of the command tree. Zero fields fall back to the real
// implementations.
type Dependencies struct {
	Logger     *zap.Logger
	Stdout     io.Writer
	Clipboard  clipboard.Copier
	Now        func() time.Time
	NewCounter func(tokenizer.Config) (tokenizer.Counter, string, error)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.Now == nil {
		dependencies.Now = time.Now
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	return dependencies
}

// Execute runs the treecontent application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// renderOptions stores the flag values of the render command.
type renderOptions struct {
	includeContent    bool
	exclusionNames    []string
	inlineExtensions  []string
	outputDirectory   string
	configurationPath string
	copyToClipboard   bool
	countTokens       bool
	tokenModel        string
	showVersion       bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	resolvedDependencies := dependencies.withDefaults()
	var options renderOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printError := fmt.Fprintf(resolvedDependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			return runRender(command, resolvedDependencies, options, rootPath)
		},
	}

	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &options.includeContent, contentFlagName, true, contentFlagDescription)
	flagSet.StringArrayVarP(&options.exclusionNames, exclusionFlagName, exclusionFlagAbbr, nil, exclusionFlagDescription)
	flagSet.StringArrayVarP(&options.inlineExtensions, extensionFlagName, extensionFlagAbbr, nil, extensionFlagDescription)
	flagSet.StringVar(&options.outputDirectory, outputDirFlagName, "", outputDirFlagDescription)
	flagSet.StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.countTokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&options.tokenModel, modelFlagName, config.DefaultTokenModel, modelFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(resolvedDependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: overwrite})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(dependencies.Stdout, configurationWrittenFormat, writtenPath)
			return printError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &writeGlobal, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &overwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveRenderSettings layers explicitly set flags over the loaded configuration.
func resolveRenderSettings(command *cobra.Command, options renderOptions, workingDirectory string) (config.RenderSettings, error) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configurationPath,
	})
	if loadError != nil {
		return config.RenderSettings{}, loadError
	}

	renderConfiguration := applicationConfiguration.Render
	flagSet := command.Flags()
	if flagSet.Changed(contentFlagName) {
		renderConfiguration.IncludeContent = &options.includeContent
	}
	renderConfiguration.Exclude = append(renderConfiguration.Exclude, options.exclusionNames...)
	renderConfiguration.Extensions = append(renderConfiguration.Extensions, options.inlineExtensions...)
	if flagSet.Changed(outputDirFlagName) {
		renderConfiguration.OutputDirectory = options.outputDirectory
	}
	if flagSet.Changed(copyFlagName) {
		renderConfiguration.Copy = &options.copyToClipboard
	}
	if flagSet.Changed(tokensFlagName) {
		renderConfiguration.Tokens.Enabled = &options.countTokens
	}
	if flagSet.Changed(modelFlagName) {
		renderConfiguration.Tokens.Model = options.tokenModel
	}

	settings := renderConfiguration.Settings()
	if settings.OutputDirectory == "" {
		settings.OutputDirectory = workingDirectory
	} else if !filepath.IsAbs(settings.OutputDirectory) {
		settings.OutputDirectory = filepath.Join(workingDirectory, settings.OutputDirectory)
	}
	return settings, nil
}

// runRender renders rootPath into a new timestamped file and runs the requested follow-ups.
func runRender(command *cobra.Command, dependencies Dependencies, options renderOptions, rootPath string) (err error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	settings, settingsError := resolveRenderSettings(command, options, workingDirectory)
	if settingsError != nil {
		return settingsError
	}
	absoluteRoot, rootError := resolveRootPath(rootPath)
	if rootError != nil {
		return rootError
	}

	sink, sinkError := output.CreateFileSink(settings.OutputDirectory, dependencies.Now())
	if sinkError != nil {
		return sinkError
	}
	defer func() {
		if closeError := sink.Close(); closeError != nil {
			err = errors.Join(err, closeError)
		}
	}()

	logger := dependencies.Logger
	renderer := commands.NewTreeRenderer(settings, func(message string) {
		logger.Warn(message)
	})
	statistics, renderError := renderer.Render(absoluteRoot, sink)
	if renderError != nil {
		return fmt.Errorf(errorRenderFormat, rootPath, renderError)
	}
	if closeError := sink.Close(); closeError != nil {
		return closeError
	}

	if _, printError := fmt.Fprintf(dependencies.Stdout, savedMessageFormat, displayPath(sink.Path(), workingDirectory)); printError != nil {
		return printError
	}
	logSummary(logger, statistics, sink.BytesWritten())

	if settings.Copy {
		if copyError := clipboard.CopyFile(dependencies.Clipboard, sink.Path()); copyError != nil {
			return fmt.Errorf(errorClipboardFormat, copyError)
		}
		logger.Info(copiedMessage)
	}
	if settings.TokensEnabled {
		if tokenError := reportTokens(dependencies, settings.TokenModel, sink.Path()); tokenError != nil {
			return tokenError
		}
	}
	return nil
}

func logSummary(logger *zap.Logger, statistics types.RenderStatistics, bytesWritten int64) {
	logger.Info(fmt.Sprintf(summaryMessageFormat, statistics.Directories, statistics.Files, utils.FormatFileSize(bytesWritten)))
	if statistics.Unreadable > 0 {
		logger.Info(fmt.Sprintf(summaryUnreadableFormat, statistics.Unreadable))
	}
	if statistics.SkippedSubtree > 0 {
		logger.Info(fmt.Sprintf(summarySkippedFormat, statistics.SkippedSubtree))
	}
}

func reportTokens(dependencies Dependencies, model string, artifactPath string) error {
	counter, resolvedModel, counterError := dependencies.NewCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		return fmt.Errorf(errorTokenizerFormat, counterError)
	}
	countResult, countError := tokenizer.CountFile(counter, artifactPath)
	if countError != nil {
		return fmt.Errorf(errorTokenCountFormat, artifactPath, countError)
	}
	if !countResult.Counted {
		dependencies.Logger.Warn(fmt.Sprintf(warningTokensNotCountedFormat, artifactPath))
		return nil
	}
	dependencies.Logger.Info(fmt.Sprintf(tokenMessageFormat, countResult.Tokens, resolvedModel))
	return nil
}

// displayPath shortens artifactPath relative to the working directory when it lives below it.
func displayPath(artifactPath string, workingDirectory string) string {
	relativePath, relativeError := filepath.Rel(workingDirectory, artifactPath)
	if relativeError != nil || relativePath == parentDirectory || strings.HasPrefix(relativePath, parentDirectory+string(filepath.Separator)) {
		return artifactPath
	}
	return relativePath
}

// resolveRootPath converts the input path to a clean absolute path. Whether it can be listed is
// left to the renderer, which reports an unlistable root like any other subtree.
func resolveRootPath(inputPath string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	return filepath.Clean(absolutePath), nil
}
