package network

import (
	"errors"
	"strings"
	"time"

	"agora.network/agora/lib/common"
)

type ServerConfig struct {
	Endpoint *common.Endpoint
	Addr     string

	ReadTimeout,
	ReadHeaderTimeout,
	WriteTimeout,
	IdleTimeout time.Duration

	TLSCertFile,
	TLSKeyFile string
}

// NewServerConfigFromEndpoint reads the server tuning knobs from the
// endpoint's query string, e.g.
// `https://0.0.0.0:12345?ReadTimeout=10s&TLSCertFile=agora.crt&TLSKeyFile=agora.key`.
func NewServerConfigFromEndpoint(endpoint *common.Endpoint) (config *ServerConfig, err error) {
	query := endpoint.Query()

	var readTimeout, readHeaderTimeout, writeTimeout, idleTimeout time.Duration

	if readTimeout, err = time.ParseDuration(common.GetUrlQuery(query, "ReadTimeout", "0s")); err != nil {
		return
	}
	if readTimeout < 0 {
		err = errors.New("invalid 'ReadTimeout'")
		return
	}

	if readHeaderTimeout, err = time.ParseDuration(common.GetUrlQuery(query, "ReadHeaderTimeout", "0s")); err != nil {
		return
	}
	if readHeaderTimeout < 0 {
		err = errors.New("invalid 'ReadHeaderTimeout'")
		return
	}

	if writeTimeout, err = time.ParseDuration(common.GetUrlQuery(query, "WriteTimeout", "0s")); err != nil {
		return
	}
	if writeTimeout < 0 {
		err = errors.New("invalid 'WriteTimeout'")
		return
	}

	if idleTimeout, err = time.ParseDuration(common.GetUrlQuery(query, "IdleTimeout", "0s")); err != nil {
		return
	}
	if idleTimeout < 0 {
		err = errors.New("invalid 'IdleTimeout'")
		return
	}

	tlsCertFile := query.Get("TLSCertFile")
	tlsKeyFile := query.Get("TLSKeyFile")

	if strings.ToLower(endpoint.Scheme) == "https" && (len(tlsCertFile) < 1 || len(tlsKeyFile) < 1) {
		err = errors.New("HTTPS needs `TLSCertFile` and `TLSKeyFile`")
		return
	}

	config = &ServerConfig{
		Endpoint:          endpoint,
		Addr:              endpoint.Host,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		TLSCertFile:       tlsCertFile,
		TLSKeyFile:        tlsKeyFile,
	}

	return
}

func (config ServerConfig) IsHTTPS() bool {
	return len(config.TLSCertFile) > 0 && len(config.TLSKeyFile) > 0
}

func (config ServerConfig) String() string {
	return string(common.MustJSONMarshal(config))
}
