package storage

import (
	"net/url"
	"path/filepath"

	"agora.network/agora/lib/errors"
)

type Config struct {
	Scheme string
	Path   string
}

// NewConfigFromString parses a storage URI; `file:///var/lib/agora/db` opens
// an on-disk database, `memory://` an ephemeral one.
func NewConfigFromString(s string) (config *Config, err error) {
	var u *url.URL
	if u, err = url.Parse(s); err != nil {
		err = errors.InvalidStorageConfig.Clone().SetData("config", s)
		return
	}

	switch u.Scheme {
	case "file":
		path := filepath.Join(u.Host, u.Path)
		if len(path) < 1 {
			err = errors.InvalidStorageConfig.Clone().SetData("config", s)
			return
		}
		config = &Config{Scheme: u.Scheme, Path: path}
	case "memory":
		config = &Config{Scheme: u.Scheme}
	default:
		err = errors.InvalidStorageConfig.Clone().SetData("config", s)
	}

	return
}

func (c *Config) String() string {
	u := url.URL{Scheme: c.Scheme, Path: c.Path}
	return u.String()
}
