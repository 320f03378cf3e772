// Package publish uploads finished run folders to S3.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/apresai/comedian/internal/output"
)

// DefaultPrefix is the key prefix for published runs.
const DefaultPrefix = "comedy"

// ErrNoArtifacts is returned when a folder holds neither a transcript nor audio.
var ErrNoArtifacts = errors.New("folder has no comedy artifacts")

var contentTypes = map[string]string{
	output.TranscriptFile: "text/plain; charset=utf-8",
	output.AudioFile:      "audio/mpeg",
}

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Object is one uploaded artifact.
type Object struct {
	Key  string
	URL  string
	Size int64
}

// Publisher uploads run artifacts under bucket/prefix.
type Publisher struct {
	client  ObjectPutter
	bucket  string
	prefix  string
	baseURL string // e.g. "https://comedy.example.com"; empty means s3:// URLs
}

func New(client ObjectPutter, bucket, prefix, baseURL string) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewS3Client builds a traced S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return s3.NewFromConfig(cfg), nil
}

// PublishFolder uploads the transcript and audio found in dir. Missing
// artifacts are skipped; a folder with neither is an error.
func (p *Publisher) PublishFolder(ctx context.Context, dir string) ([]Object, error) {
	name := filepath.Base(filepath.Clean(dir))

	var objects []Object
	for _, file := range []string{output.TranscriptFile, output.AudioFile} {
		obj, err := p.upload(ctx, filepath.Join(dir, file), path.Join(p.prefix, name, file), contentTypes[file])
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return objects, err
		}
		objects = append(objects, obj)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoArtifacts)
	}
	return objects, nil
}

func (p *Publisher) upload(ctx context.Context, localPath, key, contentType string) (Object, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Object{}, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Object{}, fmt.Errorf("stat %s: %w", localPath, err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return Object{}, fmt.Errorf("upload %s to s3://%s/%s: %w", localPath, p.bucket, key, err)
	}

	return Object{Key: key, URL: p.objectURL(key), Size: info.Size()}, nil
}

func (p *Publisher) objectURL(key string) string {
	if p.baseURL == "" {
		return "s3://" + p.bucket + "/" + key
	}
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return p.baseURL + "/" + strings.Join(segments, "/")
}
