package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xiaoyuanzhu-com/project-import/db"
	"github.com/xiaoyuanzhu-com/project-import/fs"
	"github.com/xiaoyuanzhu-com/project-import/importer"
	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/models"
	"github.com/xiaoyuanzhu-com/project-import/server"
)

var (
	importFormat  string
	importOutput  string
	importName    string
	importRecord  bool
	maxFileSize   int64
	useGitignore  bool
	watchFolder   bool
	remoteHistory bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a project and print its chat history",
	Long: `Build the chat history for a project. The result is written to stdout
(or --output) as JSON or YAML; a summary goes to stderr.`,
}

var importFolderCmd = &cobra.Command{
	Use:   "folder <dir>",
	Short: "Import a local folder",
	Long: `Walk a folder, skip dependency and build directories, classify files as
text or binary and print the resulting messages.

With --watch the folder is re-imported after every batch of changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(importFormat); err != nil {
			return err
		}
		imp, cleanup, err := cliImporter(false)
		if err != nil {
			return err
		}
		defer cleanup()

		root := args[0]
		if err := importFolderOnce(cmd, imp, root); err != nil {
			return err
		}
		if !watchFolder {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return fs.Watch(ctx, root, fs.WatchOptions{}, func(changes []fs.Change) {
			log.Info().Int("changes", len(changes)).Msg("folder changed, re-importing")
			if err := importFolderOnce(cmd, imp, root); err != nil {
				log.Error().Err(err).Msg("re-import failed")
			}
		})
	},
}

var importArchiveCmd = &cobra.Command{
	Use:   "archive <file>",
	Short: "Import a zip or tar archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(importFormat); err != nil {
			return err
		}
		imp, cleanup, err := cliImporter(false)
		if err != nil {
			return err
		}
		defer cleanup()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		src, err := importer.ArchiveHandles(cmd.Context(), filepath.Base(args[0]), f, importer.ArchiveLimits{
			MaxFileSize:  maxFileSize,
			MaxTotalSize: appConfig.MaxUploadBytes,
		})
		if err != nil {
			return err
		}
		name := importName
		if name == "" {
			name = src.Name
		}

		messages, err := imp.ImportFolder(cmd.Context(), importer.FolderRequest{
			Name:        name,
			Handles:     src.Handles,
			BinaryFiles: src.BinaryFiles,
			Source:      models.SourceArchive,
		})
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.ErrOrStderr(), importSummary{
			Name:     name,
			Files:    len(src.Handles),
			Binary:   src.BinaryFiles,
			Messages: len(messages),
		}.render())
		return writeResult(importOutput, cmd.OutOrStdout(), importFormat, messages)
	},
}

var importRemoteCmd = &cobra.Command{
	Use:   "remote <project-hex>",
	Short: "Import an autopilot project",
	Long: `Fetch every document of an autopilot project and print either the
chat history item (--history) or the raw project files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(importFormat); err != nil {
			return err
		}
		imp, cleanup, err := cliImporter(true)
		if err != nil {
			return err
		}
		defer cleanup()

		if remoteHistory {
			item, err := imp.ImportRemote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeResult(importOutput, cmd.OutOrStdout(), importFormat, item)
		}

		result, err := imp.FetchRemoteProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.ErrOrStderr(), importSummary{
			Name:  result.ProjectName,
			Files: len(result.Files),
		}.render())
		return writeResult(importOutput, cmd.OutOrStdout(), importFormat, result)
	},
}

func importFolderOnce(cmd *cobra.Command, imp *importer.Importer, root string) error {
	walked, err := fs.Walk(root, fs.WalkOptions{
		RespectGitignore: useGitignore,
		MaxFileSize:      maxFileSize,
	})
	if err != nil {
		return err
	}

	handles := make([]importer.FileHandle, len(walked.Files))
	for i, f := range walked.Files {
		handles[i] = f
	}

	name := importName
	if name == "" {
		name = walked.Name
	}

	messages, err := imp.ImportFolder(cmd.Context(), importer.FolderRequest{
		Name:        name,
		Handles:     handles,
		BinaryFiles: walked.BinaryFiles,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.ErrOrStderr(), importSummary{
		Name:      name,
		Files:     len(walked.Files),
		Binary:    walked.BinaryFiles,
		Oversized: walked.Oversized,
		Excluded:  walked.Excluded,
		Messages:  len(messages),
	}.render())
	return writeResult(importOutput, cmd.OutOrStdout(), importFormat, messages)
}

// cliImporter builds an importer for one command. Remote imports get the
// configured autopilot client and blob backend. With --record every run is
// written to the import journal.
func cliImporter(remote bool) (*importer.Importer, func(), error) {
	cleanup := func() {}
	var observer importer.Observer

	if importRecord {
		database, err := db.Open(appConfig.DatabasePath, appConfig.DBLogQueries)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open import journal: %w", err)
		}
		observer = db.NewJournal(database)
		cleanup = func() {
			if err := database.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close import journal")
			}
		}
	}

	if !remote {
		return importer.New(importer.Config{
			Concurrency: appConfig.FetchConcurrency,
			Observer:    observer,
		}), cleanup, nil
	}

	imp, err := server.NewImporter(server.FromAppConfig(appConfig), observer)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return imp, cleanup, nil
}

func init() {
	importCmd.PersistentFlags().StringVarP(&importFormat, "format", "f", formatJSON, "Output format: json or yaml")
	importCmd.PersistentFlags().StringVarP(&importOutput, "output", "o", "", "Write the result to a file instead of stdout")
	importCmd.PersistentFlags().StringVar(&importName, "name", "", "Project name (defaults to the folder or archive root)")
	importCmd.PersistentFlags().BoolVar(&importRecord, "record", false, "Record the run in the import journal")
	importCmd.PersistentFlags().Int64Var(&maxFileSize, "max-file-size", 1<<20, "Skip files larger than this many bytes (0 = no limit)")

	importFolderCmd.Flags().BoolVar(&useGitignore, "gitignore", true, "Honor the folder's .gitignore")
	importFolderCmd.Flags().BoolVarP(&watchFolder, "watch", "w", false, "Re-import whenever the folder changes")
	importRemoteCmd.Flags().BoolVar(&remoteHistory, "history", false, "Print the chat history item instead of the raw files")

	importCmd.AddCommand(importFolderCmd, importArchiveCmd, importRemoteCmd)
	rootCmd.AddCommand(importCmd)
}
