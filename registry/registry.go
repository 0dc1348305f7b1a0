// Package registry persists the names and identifiers of the resources a
// provisioning run created, so a later teardown can target exactly that run.
// The remote provider stays the source of truth: losing this file only costs
// precision, not correctness, since teardown can also discover resources by
// naming convention.
package registry

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Record struct {
	Suffix           string `yaml:"suffix"`
	IngestBucket     string `yaml:"ingest-bucket"`
	WebBucket        string `yaml:"web-bucket"`
	Table            string `yaml:"dynamodb-table"`
	StreamARN        string `yaml:"dynamodb-stream-arn"`
	LoaderFunction   string `yaml:"loader-function"`
	QueryFunction    string `yaml:"query-function"`
	NotifierFunction string `yaml:"notifier-function"`
	RoleName         string `yaml:"lambda-role-name"`
	TopicARN         string `yaml:"sns-topic-arn"`
	MappingID        string `yaml:"stream-mapping-id"`
	WebsiteURL       string `yaml:"website-url"`
	ApiID            string `yaml:"http-api-id"`
	ApiEndpoint      string `yaml:"http-api-endpoint"`
}

func Save(path string, rec *Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a previously saved record. A missing file is not an error; it
// returns (nil, nil) so callers can fall back to discovery by convention.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
