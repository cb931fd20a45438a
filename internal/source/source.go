package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/funa-dev/funa/internal/errors"
)

// S3Scheme prefixes remote sources.
const S3Scheme = "s3://"

// ObjectGetter is the subset of the S3 client used by Loader.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads sources.
type Loader struct {
	region string

	mu     sync.Mutex
	client ObjectGetter
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegion overrides the region of the default AWS configuration.
func WithRegion(region string) Option {
	return func(l *Loader) {
		l.region = region
	}
}

// WithS3Client sets the client used for s3:// sources.
func WithS3Client(client ObjectGetter) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsRemote reports whether src names an S3 object.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, S3Scheme)
}

// ParseS3 splits an s3://bucket/key URL.
func ParseS3(src string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(src, S3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not an s3 url", src)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must name a bucket and a key", src)
	}
	return bucket, key, nil
}

// Read returns the content of src.
func (l *Loader) Read(ctx context.Context, src string) ([]byte, error) {
	if !IsRemote(src) {
		b, err := os.ReadFile(src)
		if err != nil {
			return nil, errors.New("F110").Wrap(err).WithLocation(src, 0, 0)
		}
		return b, nil
	}

	bucket, key, err := ParseS3(src)
	if err != nil {
		return nil, errors.New("F110").Wrap(err)
	}
	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, errors.New("F111").Wrap(err)
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("F111").Wrap(fmt.Errorf("get %s: %w", src, err))
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("F111").Wrap(fmt.Errorf("read %s: %w", src, err))
	}
	return b, nil
}

func (l *Loader) s3Client(ctx context.Context) (ObjectGetter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if l.region != "" {
		opts = append(opts, awsconfig.WithRegion(l.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	l.client = s3.NewFromConfig(cfg)
	return l.client, nil
}

// Data reads src and decodes it with DecodeData. An empty src yields nil.
func (l *Loader) Data(ctx context.Context, src string) (map[string]any, error) {
	if src == "" {
		return nil, nil
	}
	b, err := l.Read(ctx, src)
	if err != nil {
		return nil, err
	}
	return DecodeData(src, b)
}

// DecodeData decodes one JSON or YAML object. Files ending in .json are
// decoded as JSON, everything else as YAML.
func DecodeData(name string, b []byte) (map[string]any, error) {
	var v any
	var err error
	if strings.EqualFold(path.Ext(name), ".json") {
		err = json.Unmarshal(b, &v)
	} else {
		err = yaml.Unmarshal(b, &v)
	}
	if err != nil {
		return nil, errors.New("F112").Wrap(err).WithLocation(name, 0, 0)
	}
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("F112").
			WithDetail(fmt.Sprintf("%s holds %T, not an object", name, v)).
			WithLocation(name, 0, 0)
	}
	return m, nil
}
