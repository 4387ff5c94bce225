package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/kyokomi/emoji"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func startSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Color("magenta")
	s.Start()
	return s
}

func stopSpinner(s *spinner.Spinner, message string) {
	s.Stop()
	emoji.Println(":ok: " + message)
}

func main() {
	app := &cli.App{
		Name:      "shipit",
		Usage:     "publish a local folder to a GitHub repository",
		Version:   version,
		ArgsUsage: "<folder> <repository>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "publish destination: github or s3",
				Value:   "github",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "file listing platform-reported paths to publish, one per line",
			},
			&cli.StringFlag{
				Name:  "branch",
				Usage: "branch to publish to",
			},
			&cli.BoolFlag{
				Name:  "private",
				Usage: "create the repository as private",
			},
			&cli.BoolFlag{
				Name:  "create",
				Usage: "create the repository if it does not exist",
				Value: true,
			},
			&cli.Int64Flag{
				Name:  "max-file-size",
				Usage: "skip files larger than this many bytes",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: publish,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

var supportedProviders = NewSet("github", "s3")

func publish(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: shipit <folder> <repository>")
	}
	folderName := c.Args().Get(0)
	repositoryName := c.Args().Get(1)

	if c.Bool("verbose") {
		log.SetLevel(log.DebugLevel)
	}

	provider := c.String("provider")
	if !supportedProviders.Contains(provider) {
		return fmt.Errorf("provider not supported: %s", provider)
	}

	config, err := LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("branch") {
		config.Branch = c.String("branch")
	}
	if c.IsSet("private") {
		config.Private = c.Bool("private")
	}
	if c.IsSet("max-file-size") {
		config.MaxFileSizeBytes = c.Int64("max-file-size")
	}
	if err := config.Validate(); err != nil {
		return err
	}

	filesToUpload, err := collectFiles(folderName, c.String("manifest"), config.MaxFileSizeBytes)
	if err != nil {
		return err
	}
	if len(filesToUpload) == 0 {
		return fmt.Errorf("no files to publish in '%s'", folderName)
	}
	log.Debugf("found %d files to publish", len(filesToUpload))

	var manager PublishProviderManager
	switch provider {
	case "github":
		manager, err = NewGithubPublishProviderManager(repositoryName, folderName, filesToUpload, config)
	case "s3":
		manager, err = NewS3PublishProviderManager(repositoryName, folderName, filesToUpload, config.S3)
	}
	if err != nil {
		return err
	}

	s := startSpinner("Verifying credentials")
	if err := manager.InstantiateClient(); err != nil {
		s.Stop()
		return err
	}
	stopSpinner(s, "Credentials verified")

	exists, err := manager.VerifyRepository()
	if err != nil {
		return err
	}
	if !exists {
		if !c.Bool("create") {
			return fmt.Errorf("repository '%s' does not exist", repositoryName)
		}
		s = startSpinner("Creating repository " + repositoryName)
		if err := manager.CreateRepository(); err != nil {
			s.Stop()
			return err
		}
		stopSpinner(s, "Repository created")
	}

	uploadLog, err := manager.UploadFiles()
	if err != nil {
		return err
	}
	emoji.Println(fmt.Sprintf(":rocket: Published %d files to %s", uploadLog.Uploaded(), manager.Destination()))
	return nil
}

// collectFiles resolves the list of repo-relative paths to publish, either by
// walking the folder or from a manifest of platform-reported paths.
func collectFiles(folderName string, manifestPath string, maxFileSizeBytes int64) ([]string, error) {
	if manifestPath != "" {
		return ReadManifest(manifestPath)
	}
	return NewUploadFileFinder().FindFiles(folderName, maxFileSizeBytes)
}
