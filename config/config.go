package config

import (
	"errors"

	"github.com/cyverse-de/go-mod/cfg"
)

var ServiceName = "autovm"

// Specification defines the configuration settings for the AutoVM service.
type Specification struct {
	DatabaseURI         string
	RunSchemaMigrations bool
	ReinitDB            bool
	NatsCluster         string
	MaxReconnects       int
	ReconnectWait       int
	CACertPath          string
	TLSKeyPath          string
	TLSCertPath         string
	CredsPath           string
	BaseSubject         string
	BaseQueueName       string
	ListenPort          int
}

// LoadConfig loads the configuration for the AutoVM service.
func LoadConfig(envPrefix, configPath, dotEnvPath string) (*Specification, error) {
	k, err := cfg.Init(&cfg.Settings{
		EnvPrefix:   envPrefix,
		ConfigPath:  configPath,
		DotEnvPath:  dotEnvPath,
		StrictMerge: false,
		FileType:    cfg.YAML,
	})
	if err != nil {
		return nil, err
	}

	var s Specification

	s.DatabaseURI = k.String("database.uri")
	if s.DatabaseURI == "" {
		return nil, errors.New("database.uri or AUTOVM_DATABASE_URI must be set")
	}

	s.RunSchemaMigrations = k.Bool("run.migrations")
	s.ReinitDB = k.Bool("reinit.db")

	s.NatsCluster = k.String("nats.cluster")
	if s.NatsCluster == "" {
		return nil, errors.New("nats.cluster must be set in the configuration file")
	}

	s.MaxReconnects = k.Int("nats.max.reconnects")
	s.ReconnectWait = k.Int("nats.reconnect.wait")
	s.CACertPath = k.String("nats.tls.ca.path")
	s.TLSCertPath = k.String("nats.tls.cert.path")
	s.TLSKeyPath = k.String("nats.tls.key.path")
	s.CredsPath = k.String("nats.creds.path")

	s.BaseSubject = k.String("nats.base.subject")
	if s.BaseSubject == "" {
		s.BaseSubject = "autovm.>"
	}

	s.BaseQueueName = k.String("nats.base.queue")
	if s.BaseQueueName == "" {
		s.BaseQueueName = "autovm_service"
	}

	s.ListenPort = k.Int("listen.port")
	if s.ListenPort == 0 {
		s.ListenPort = 9000
	}

	return &s, nil
}
