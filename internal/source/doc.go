// Package source reads templates, data and scripts from local files or
// from S3.
//
// A source is either a filesystem path or an s3://bucket/key URL. Remote
// sources are fetched with the AWS SDK using the default credential chain;
// the S3 client is created on first use.
//
//	loader := source.NewLoader(source.WithRegion("eu-west-1"))
//	page, err := loader.Read(ctx, "s3://site/index.html")
//	data, err := loader.Data(ctx, "data.yaml")
package source
