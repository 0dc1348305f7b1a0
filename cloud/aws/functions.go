package aws

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	log "github.com/sirupsen/logrus"
)

const (
	defaultRuntime     = "provided.al2023"
	defaultHandlerName = "bootstrap"
	defaultTimeout     = 15
	defaultMemory      = 128
)

// FunctionConfig describes one Lambda function to deploy. CodePath points at
// the prebuilt handler binary; it is packaged as the single file ArchiveName
// at the root of an in-memory zip, which is the layout the custom runtime
// expects.
type FunctionConfig struct {
	Name        string
	RoleARN     string
	CodePath    string
	Runtime     string
	Handler     string
	ArchiveName string
	Timeout     int64
	Memory      int64
	Env         map[string]string
}

func (c FunctionConfig) withDefaults() FunctionConfig {
	if c.Runtime == "" {
		c.Runtime = defaultRuntime
	}
	if c.Handler == "" {
		c.Handler = defaultHandlerName
	}
	if c.ArchiveName == "" {
		c.ArchiveName = defaultHandlerName
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Memory == 0 {
		c.Memory = defaultMemory
	}
	return c
}

// EnsureFunction creates the function, or updates its code and configuration
// in place when it already exists.
func (p *Provider) EnsureFunction(cfg FunctionConfig) (string, error) {
	cfg = cfg.withDefaults()

	code, err := packageArchive(cfg.CodePath, cfg.ArchiveName)
	if err != nil {
		return "", fmt.Errorf("packaging %s: %v", cfg.Name, err)
	}

	env := &lambda.Environment{Variables: aws.StringMap(cfg.Env)}

	_, err = p.Lambda.CreateFunction(&lambda.CreateFunctionInput{
		FunctionName: aws.String(cfg.Name),
		Runtime:      aws.String(cfg.Runtime),
		Role:         aws.String(cfg.RoleARN),
		Handler:      aws.String(cfg.Handler),
		Code:         &lambda.FunctionCode{ZipFile: code},
		Timeout:      aws.Int64(cfg.Timeout),
		MemorySize:   aws.Int64(cfg.Memory),
		Environment:  env,
		Publish:      aws.Bool(true),
	})

	switch {
	case err == nil:
		log.Infof("[Lambda] function created: %s", cfg.Name)
	case isAlreadyExists(err):
		log.Infof("[Lambda] function already exists: %s, updating code", cfg.Name)

		if _, uerr := p.Lambda.UpdateFunctionCode(&lambda.UpdateFunctionCodeInput{
			FunctionName: aws.String(cfg.Name),
			ZipFile:      code,
			Publish:      aws.Bool(true),
		}); uerr != nil {
			return "", uerr
		}

		if werr := p.Lambda.WaitUntilFunctionUpdated(&lambda.GetFunctionConfigurationInput{
			FunctionName: aws.String(cfg.Name),
		}); werr != nil {
			return "", werr
		}

		if _, uerr := p.Lambda.UpdateFunctionConfiguration(&lambda.UpdateFunctionConfigurationInput{
			FunctionName: aws.String(cfg.Name),
			Environment:  env,
			Timeout:      aws.Int64(cfg.Timeout),
			MemorySize:   aws.Int64(cfg.Memory),
		}); uerr != nil {
			return "", uerr
		}
	default:
		return "", err
	}

	out, err := p.Lambda.GetFunction(&lambda.GetFunctionInput{FunctionName: aws.String(cfg.Name)})
	if err != nil {
		return "", err
	}

	return aws.StringValue(out.Configuration.FunctionArn), nil
}

// DeleteFunction removes the function's event source mappings first, then the
// function itself.
func (p *Provider) DeleteFunction(name string) error {
	mappings, err := p.Lambda.ListEventSourceMappings(&lambda.ListEventSourceMappingsInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		if !isNotFound(err) {
			log.Warnf("[Lambda] could not list event source mappings for %s: %v", name, err)
		}
	} else {
		for _, m := range mappings.EventSourceMappings {
			id := aws.StringValue(m.UUID)
			if _, derr := p.Lambda.DeleteEventSourceMapping(&lambda.DeleteEventSourceMappingInput{
				UUID: m.UUID,
			}); derr != nil && !isNotFound(derr) {
				log.Warnf("[Lambda] could not delete event source mapping %s: %v", id, derr)
			} else {
				log.Infof("[Lambda] event source mapping deleted for %s (UUID: %s)", name, id)
			}
		}
	}

	if _, err := p.Lambda.DeleteFunction(&lambda.DeleteFunctionInput{FunctionName: aws.String(name)}); err != nil {
		if isNotFound(err) {
			log.Infof("[Lambda] function not found (already deleted): %s", name)
			return nil
		}
		return err
	}

	log.Infof("[Lambda] function deleted: %s", name)
	return nil
}

// packageArchive builds the deployment zip in memory: one executable file at
// the archive root.
func packageArchive(path, arcname string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	header := &zip.FileHeader{Name: arcname, Method: zip.Deflate}
	header.SetMode(0755)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
