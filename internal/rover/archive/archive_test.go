package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/autopeer-io/rover/pkg/options"
)

type fakeProvider struct {
	checkErr error
	uploads  map[string]string
}

func (p *fakeProvider) CheckBucket(ctx context.Context) error { return p.checkErr }

func (p *fakeProvider) Upload(ctx context.Context, objectKey, file string) error {
	if p.uploads == nil {
		p.uploads = map[string]string{}
	}
	p.uploads[objectKey] = file
	return nil
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("f-1", "/var/lib/rover/LastFlight.afr"); got != "flights/f-1/LastFlight.afr" {
		t.Errorf("ObjectKey() = %q", got)
	}
}

func TestStore(t *testing.T) {
	p := &fakeProvider{}
	key, err := New(p).Store(context.Background(), "f-1", "logs/LastFlight.afr")
	if err != nil {
		t.Fatal(err)
	}
	if key != "flights/f-1/LastFlight.afr" || p.uploads[key] != "logs/LastFlight.afr" {
		t.Errorf("key = %q, uploads = %v", key, p.uploads)
	}
}

func TestStoreBucketFailure(t *testing.T) {
	p := &fakeProvider{checkErr: errors.New("connection refused")}
	if _, err := New(p).Store(context.Background(), "f-1", "LastFlight.afr"); err == nil {
		t.Fatal("Store() expected an error")
	}
	if len(p.uploads) != 0 {
		t.Error("uploaded despite a bucket failure")
	}
}

func TestNewMinIOProvider(t *testing.T) {
	opts := options.NewS3Options()
	opts.InsecureSkipVerify = true
	if _, err := NewMinIOProvider(opts); err != nil {
		t.Fatalf("NewMinIOProvider() error = %v", err)
	}
}
