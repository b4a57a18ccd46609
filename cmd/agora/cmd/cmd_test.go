package cmd

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	cmdcommon "agora.network/agora/cmd/agora/common"
	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/keypair"
)

func TestParseFlagRateLimit(t *testing.T) {
	{ // weired value
		testCmd := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

		var fr cmdcommon.ListFlags
		testCmd.Var(&fr, "rate-limit-api", "")

		cmdline := "--rate-limit-api=showme"
		err := testCmd.Parse(strings.Fields(cmdline))
		require.NoError(t, err)

		_, err = parseFlagRateLimit(fr, common.RateLimitAPI)
		require.Error(t, err)
	}

	{ // valid value
		testCmd := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

		var fr cmdcommon.ListFlags
		testCmd.Var(&fr, "rate-limit-api", "")

		cmdline := "--rate-limit-api=10-S"
		err := testCmd.Parse(strings.Fields(cmdline))
		require.NoError(t, err)

		rule, err := parseFlagRateLimit(fr, common.RateLimitAPI)
		require.NoError(t, err)
		require.Equal(t, time.Second, rule.Default.Period)
		require.Equal(t, int64(10), rule.Default.Limit)
		require.Equal(t, 0, len(rule.ByIPAddress))
	}

	{ // multiple value, last will be choose.
		testCmd := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

		var fr cmdcommon.ListFlags
		testCmd.Var(&fr, "rate-limit-api", "")

		cmdline := "--rate-limit-api=10-S --rate-limit-api=9-M"
		err := testCmd.Parse(strings.Fields(cmdline))
		require.NoError(t, err)

		rule, err := parseFlagRateLimit(fr, common.RateLimitAPI)
		require.NoError(t, err)
		require.Equal(t, time.Minute, rule.Default.Period)
		require.Equal(t, int64(9), rule.Default.Limit)
		require.Equal(t, 0, len(rule.ByIPAddress))
	}

	{ // with ip address, but `common.RateLimitAPI` will be default
		testCmd := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

		var fr cmdcommon.ListFlags
		testCmd.Var(&fr, "rate-limit-api", "")

		allowedIP := "1.2.3.4"
		cmdline := fmt.Sprintf("--rate-limit-api=%s=8-S", allowedIP)
		err := testCmd.Parse(strings.Fields(cmdline))
		require.NoError(t, err)

		rule, err := parseFlagRateLimit(fr, common.RateLimitAPI)
		require.NoError(t, err)
		require.Equal(t, common.RateLimitAPI.Period, rule.Default.Period)
		require.Equal(t, common.RateLimitAPI.Limit, rule.Default.Limit)
		require.Equal(t, 1, len(rule.ByIPAddress))
		require.NotNil(t, rule.ByIPAddress[allowedIP])
		require.Equal(t, time.Second, rule.ByIPAddress[allowedIP].Period)
		require.Equal(t, int64(8), rule.ByIPAddress[allowedIP].Limit)
	}

	{ // with ip address and with default
		testCmd := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

		var fr cmdcommon.ListFlags
		testCmd.Var(&fr, "rate-limit-api", "")

		allowedIP := "1.2.3.4"
		cmdline := fmt.Sprintf("--rate-limit-api=11-H --rate-limit-api=%s=8-S", allowedIP)
		err := testCmd.Parse(strings.Fields(cmdline))
		require.NoError(t, err)

		rule, err := parseFlagRateLimit(fr, common.RateLimitAPI)
		require.NoError(t, err)
		require.Equal(t, time.Hour, rule.Default.Period)
		require.Equal(t, int64(11), rule.Default.Limit)
		require.Equal(t, 1, len(rule.ByIPAddress))
		require.NotNil(t, rule.ByIPAddress[allowedIP])
		require.Equal(t, time.Second, rule.ByIPAddress[allowedIP].Period)
		require.Equal(t, int64(8), rule.ByIPAddress[allowedIP].Limit)
	}

	{ // invalid ip address
		testCmd := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

		var fr cmdcommon.ListFlags
		testCmd.Var(&fr, "rate-limit-api", "")

		cmdline := "--rate-limit-api=not-an-ip=8-S"
		err := testCmd.Parse(strings.Fields(cmdline))
		require.NoError(t, err)

		_, err = parseFlagRateLimit(fr, common.RateLimitAPI)
		require.Error(t, err)
	}
}

func TestParseFlagFraction(t *testing.T) {
	{
		f, err := parseFlagFraction("1/2")
		require.NoError(t, err)
		require.Equal(t, common.NewFraction(1, 2), f)
	}

	{ // whitespace around the separator
		f, err := parseFlagFraction("2 / 3")
		require.NoError(t, err)
		require.Equal(t, common.NewFraction(2, 3), f)
	}

	{ // above one
		_, err := parseFlagFraction("3/2")
		require.Error(t, err)
	}

	{ // zero denominator
		_, err := parseFlagFraction("1/0")
		require.Error(t, err)
	}

	{ // not a fraction
		_, err := parseFlagFraction("0.5")
		require.Error(t, err)
	}
}

func TestParseGroupFile(t *testing.T) {
	a0 := keypair.Random().Address()
	a1 := keypair.Random().Address()

	{
		b := []byte(fmt.Sprintf(`
members:
  - address: %s
    weight: 10
  - address: %s
    weight: 20
`, a0, a1))

		members, err := parseGroupFile(b)
		require.NoError(t, err)
		require.Equal(t, 2, len(members))
		require.Equal(t, a0, members[0].Address)
		require.Equal(t, common.Weight(10), members[0].Weight)
		require.Equal(t, a1, members[1].Address)
		require.Equal(t, common.Weight(20), members[1].Weight)
	}

	{ // invalid address
		b := []byte(`
members:
  - address: not-an-address
    weight: 10
`)
		_, err := parseGroupFile(b)
		require.Error(t, err)
	}

	{ // empty
		_, err := parseGroupFile([]byte("members: []"))
		require.Error(t, err)
	}
}

func TestParseFlagHTTPCacheRedisAddrs(t *testing.T) {
	{
		addrs, err := parseFlagHTTPCacheRedisAddrs(cmdcommon.ListFlags{"server1=localhost:6379"})
		require.NoError(t, err)
		require.Equal(t, map[string]string{"server1": "localhost:6379"}, addrs)
	}

	{ // missing name
		_, err := parseFlagHTTPCacheRedisAddrs(cmdcommon.ListFlags{"localhost:6379"})
		require.Error(t, err)
	}
}
