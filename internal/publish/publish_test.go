package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/apresai/comedian/internal/output"
)

type putCall struct {
	bucket, key, contentType string
	body                     string
}

type fakeS3 struct {
	calls []putCall
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.calls = append(f.calls, putCall{
		bucket:      aws.ToString(in.Bucket),
		key:         aws.ToString(in.Key),
		contentType: aws.ToString(in.ContentType),
		body:        string(body),
	})
	return &s3.PutObjectOutput{}, nil
}

func writeRun(t *testing.T, name string, transcript, audio bool) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if transcript {
		if err := os.WriteFile(filepath.Join(dir, output.TranscriptFile), []byte("a joke"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if audio {
		if err := os.WriteFile(filepath.Join(dir, output.AudioFile), []byte("ID3"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPublishFolder(t *testing.T) {
	dir := writeRun(t, "My cat ignores me", true, true)
	client := &fakeS3{}
	p := New(client, "laughs", "", "https://cdn.example.com/")

	objects, err := p.PublishFolder(context.Background(), dir)
	if err != nil {
		t.Fatalf("PublishFolder: %v", err)
	}
	if len(objects) != 2 || len(client.calls) != 2 {
		t.Fatalf("objects = %d, calls = %d", len(objects), len(client.calls))
	}

	first := client.calls[0]
	if first.bucket != "laughs" || first.key != "comedy/My cat ignores me/comedy_script.txt" {
		t.Errorf("first put = %+v", first)
	}
	if first.contentType != "text/plain; charset=utf-8" || first.body != "a joke" {
		t.Errorf("first put = %+v", first)
	}
	if client.calls[1].contentType != "audio/mpeg" {
		t.Errorf("audio content type = %q", client.calls[1].contentType)
	}
	if objects[1].URL != "https://cdn.example.com/comedy/My%20cat%20ignores%20me/comedy_audio.mp3" {
		t.Errorf("URL = %q", objects[1].URL)
	}
	if objects[1].Size != 3 {
		t.Errorf("Size = %d", objects[1].Size)
	}
}

func TestPublishFolderSkipsMissingAudio(t *testing.T) {
	dir := writeRun(t, "half", true, false)
	client := &fakeS3{}

	objects, err := New(client, "b", "runs/", "").PublishFolder(context.Background(), dir)
	if err != nil {
		t.Fatalf("PublishFolder: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(objects))
	}
	if objects[0].URL != "s3://b/runs/half/comedy_script.txt" {
		t.Errorf("URL = %q", objects[0].URL)
	}
}

func TestPublishFolderErrors(t *testing.T) {
	empty := writeRun(t, "empty", false, false)
	if _, err := New(&fakeS3{}, "b", "", "").PublishFolder(context.Background(), empty); !errors.Is(err, ErrNoArtifacts) {
		t.Errorf("empty folder: error = %v, want ErrNoArtifacts", err)
	}

	dir := writeRun(t, "full", true, true)
	if _, err := New(&fakeS3{err: errors.New("access denied")}, "b", "", "").PublishFolder(context.Background(), dir); err == nil {
		t.Error("expected upload error")
	}
}
