// Package config loads funa project configuration.
//
// Configuration lives in funa.yaml (or funa.yml / funa.json) at the
// project root. Every key can be overridden by an environment variable
// with the FUNA_ prefix, dots replaced by underscores.
//
// # Configuration File Structure
//
//	template: index.html        # HTML document holding the templates
//	name: main                  # template to render (default: first)
//	data: data.yaml             # initial data, JSON or YAML
//	script: registry.js         # as/if/is/on registries
//	lang: en                    # language of the stock converters
//	bypassTags: [svg]
//	serve:
//	  host: localhost
//	  port: 3000
//	  watch: [index.html, data.yaml]
//	metrics:
//	  enabled: true
//	s3:
//	  region: eu-west-1
//	log:
//	  level: info
//
// Sources may be local paths, relative to the configuration file, or
// s3://bucket/key URLs.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Serve.Port)
package config
