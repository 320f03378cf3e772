package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apresai/comedian/internal/publish"
)

var (
	flagBucket  string
	flagPrefix  string
	flagBaseURL string
)

var publishCmd = &cobra.Command{
	Use:   "publish <folder>",
	Short: "Upload a finished routine folder to S3",
	Long:  "Upload the transcript and audio of one routine folder to S3. Bucket, prefix and public URL default to COMEDIAN_S3_BUCKET, COMEDIAN_S3_PREFIX and COMEDIAN_PUBLIC_URL.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&flagBucket, "bucket", "", "S3 bucket (overrides COMEDIAN_S3_BUCKET)")
	publishCmd.Flags().StringVar(&flagPrefix, "prefix", "", "Key prefix (overrides COMEDIAN_S3_PREFIX)")
	publishCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Public base URL for printed links (overrides COMEDIAN_PUBLIC_URL)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a folder", dir)
	}

	cfg := loadConfig()
	if flagBucket != "" {
		cfg.Bucket = flagBucket
	}
	if flagPrefix != "" {
		cfg.BucketPrefix = flagPrefix
	}
	if flagBaseURL != "" {
		cfg.PublicBaseURL = flagBaseURL
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("no bucket: pass --bucket or set COMEDIAN_S3_BUCKET")
	}

	client, err := publish.NewS3Client(cmd.Context(), cfg.AWSRegion)
	if err != nil {
		return err
	}
	objects, err := publish.New(client, cfg.Bucket, cfg.BucketPrefix, cfg.PublicBaseURL).PublishFolder(cmd.Context(), dir)
	if err != nil {
		return err
	}

	fmt.Printf("Published %s\n", dir)
	for _, o := range objects {
		fmt.Printf("  %-10s %s\n", formatSize(o.Size), o.URL)
	}
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
