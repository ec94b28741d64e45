// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/luthersystems/schemer/lisp"
	"github.com/sirupsen/logrus"
)

// Option configures an exported command factory (LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	config []lisp.Config
	logger *logrus.Logger
}

// WithEnvConfig replaces the environment configuration otherwise built from
// flags and the config file.
func WithEnvConfig(config ...lisp.Config) Option {
	return func(c *cmdConfig) { c.config = append(c.config, config...) }
}

// WithLogger injects the logger used by the command.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *cmdConfig) { c.logger = logger }
}

// resolve fills in the logger and environment configuration which were not
// injected.
func (c *cmdConfig) resolve() error {
	if c.logger == nil {
		c.logger = newLogger()
	}
	if c.config != nil {
		return nil
	}
	config, err := envConfig(c.logger)
	if err != nil {
		return err
	}
	c.config = config
	return nil
}
