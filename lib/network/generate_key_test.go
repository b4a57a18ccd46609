package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/common"
)

func TestGenerateKey(t *testing.T) {
	g := NewKeyGenerator("tls_tmp", "agora.crt", "agora.key")
	defer g.Close()

	certPath := "tls_tmp/agora.crt"
	keyPath := "tls_tmp/agora.key"

	require.Equal(t, g.GetCertPath(), certPath)
	require.Equal(t, g.GetKeyPath(), keyPath)

	require.Equal(t, common.IsExists(certPath), true)
	require.Equal(t, common.IsExists(keyPath), true)
}
