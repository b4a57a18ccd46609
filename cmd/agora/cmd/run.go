package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter"
	"golang.org/x/net/http2"

	cmdcommon "agora.network/agora/cmd/agora/common"
	"agora.network/agora/lib/common"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/metrics"
	"agora.network/agora/lib/network"
	"agora.network/agora/lib/runner"
	"agora.network/agora/lib/storage"
	"agora.network/agora/lib/voting"
)

const defaultNetwork string = "https"
const defaultPort int = 12345
const defaultHost string = "0.0.0.0"
const defaultLogLevel logging.Lvl = logging.LvlInfo

var (
	flagLogLevel       string = common.GetENVValue("AGORA_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput      string = common.GetENVValue("AGORA_LOG_OUTPUT", "")
	flagVerbose        bool   = common.GetENVValue("AGORA_VERBOSE", "0") == "1"
	flagEndpointString string = common.GetENVValue(
		"AGORA_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagStorageConfigString string
	flagTLSCertFile         string = common.GetENVValue("AGORA_TLS_CERT", "agora.crt")
	flagTLSKeyFile          string = common.GetENVValue("AGORA_TLS_KEY", "agora.key")

	flagVotingPeriod  string = common.GetENVValue("AGORA_VOTING_PERIOD", common.DefaultVotingPeriod.String())
	flagPolicy        string = common.GetENVValue("AGORA_POLICY", string(defaultConf.DefaultPolicyType))
	flagPolicyCount   string = common.GetENVValue("AGORA_POLICY_COUNT", "0")
	flagPolicyPercent string = common.GetENVValue("AGORA_POLICY_PERCENT", defaultConf.DefaultPolicyPercent.String())
	flagPolicyQuorum  string = common.GetENVValue("AGORA_POLICY_QUORUM", defaultConf.DefaultPolicyQuorum.String())
	flagVeto          string = common.GetENVValue("AGORA_VETO", common.DefaultVetoFraction.String())
	flagAllowRevote   bool   = common.GetENVValue("AGORA_ALLOW_REVOTE", "0") == "1"

	flagWebhookURL string = common.GetENVValue("AGORA_WEBHOOK", "")
	flagGroupFile  string = common.GetENVValue("AGORA_GROUP", "")
	flagNTPServer  string = common.GetENVValue("AGORA_NTP_SERVER", "")

	flagHTTPCacheAdapter    string = common.GetENVValue("AGORA_HTTP_CACHE_ADAPTER", "")
	flagHTTPCachePoolSize   string = common.GetENVValue("AGORA_HTTP_CACHE_POOL_SIZE", strconv.Itoa(common.HTTPCachePoolSize))
	flagHTTPCacheRedisAddrs cmdcommon.ListFlags
	flagRateLimitAPI        cmdcommon.ListFlags
)

var (
	runCmd *cobra.Command

	defaultConf = common.NewConfig()

	serverEndpoint *common.Endpoint
	storageConfig  *storage.Config
	conf           common.Config
	logLevel       logging.Lvl
	log            logging.Logger
)

func init() {
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the governance server",
		Run: func(c *cobra.Command, args []string) {
			parseFlagsRun()

			runServer()
			return
		},
	}

	flagStorageConfigString = defaultStorageConfigString(runCmd)

	runCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	runCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	runCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	runCmd.Flags().StringVar(&flagEndpointString, "endpoint", flagEndpointString, "endpoint uri to listen on")
	runCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	runCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	runCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	runCmd.Flags().StringVar(&flagVotingPeriod, "voting-period", flagVotingPeriod, "voting period of new proposals")
	runCmd.Flags().StringVar(&flagPolicy, "policy", flagPolicy, "default threshold policy, {absolute-count, absolute-percentage, threshold-quorum}")
	runCmd.Flags().StringVar(&flagPolicyCount, "policy-count", flagPolicyCount, "yes voter count for 'absolute-count'")
	runCmd.Flags().StringVar(&flagPolicyPercent, "policy-percent", flagPolicyPercent, "yes weight fraction, like '1/2'")
	runCmd.Flags().StringVar(&flagPolicyQuorum, "policy-quorum", flagPolicyQuorum, "participation fraction for 'threshold-quorum'")
	runCmd.Flags().StringVar(&flagVeto, "veto", flagVeto, "participating-weight fraction above which a veto blocks passage")
	runCmd.Flags().BoolVar(&flagAllowRevote, "allow-revote", flagAllowRevote, "allow voters to replace an earlier ballot")
	runCmd.Flags().StringVar(&flagWebhookURL, "webhook", flagWebhookURL, "POST the payload of executed proposals to this url")
	runCmd.Flags().StringVar(&flagGroupFile, "group", flagGroupFile, "seed the group directory from this members file before starting")
	runCmd.Flags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "check the local clock against this ntp server on startup")
	runCmd.Flags().StringVar(&flagHTTPCacheAdapter, "http-cache-adapter", flagHTTPCacheAdapter, "http cache adapter: {mem, redis}")
	runCmd.Flags().StringVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "http cache pool size")
	runCmd.Flags().Var(&flagHTTPCacheRedisAddrs, "http-cache-redis-addrs", "http cache redis address: <name>=<host>:<port>")
	runCmd.Flags().Var(&flagRateLimitAPI, "rate-limit-api", "rate limit for api: [<ip>=]<limit>-<period>, ex) '10-S' '1.2.3.4=100-M'")

	rootCmd.AddCommand(runCmd)
}

func parseFlagRateLimit(l cmdcommon.ListFlags, defaultRate limiter.Rate) (rule common.RateLimitRule, err error) {
	if len(l) < 1 {
		rule = common.NewRateLimitRule(defaultRate)
		return
	}

	var givenRate *limiter.Rate
	byIPAddress := map[string]limiter.Rate{}
	for _, s := range l {
		sl := strings.SplitN(s, "=", 2)

		var ip, formatted string
		switch len(sl) {
		case 1:
			formatted = s
		case 2:
			ip = sl[0]
			formatted = sl[1]

			if net.ParseIP(ip) == nil {
				err = fmt.Errorf("invalid ip address")
				return
			}
		}

		var rate limiter.Rate
		if rate, err = limiter.NewRateFromFormatted(formatted); err != nil {
			return
		}

		if len(ip) > 0 {
			byIPAddress[ip] = rate
		} else {
			givenRate = &rate
		}
	}

	if givenRate == nil {
		givenRate = &defaultRate
	}

	rule = common.RateLimitRule{
		Default:     *givenRate,
		ByIPAddress: byIPAddress,
	}

	return
}

func parseFlagFraction(s string) (f common.Fraction, err error) {
	sl := strings.SplitN(s, "/", 2)
	if len(sl) != 2 {
		err = fmt.Errorf("expected <numerator>/<denominator>")
		return
	}

	var numerator, denominator uint64
	if numerator, err = strconv.ParseUint(strings.TrimSpace(sl[0]), 10, 64); err != nil {
		return
	}
	if denominator, err = strconv.ParseUint(strings.TrimSpace(sl[1]), 10, 64); err != nil {
		return
	}

	f = common.NewFraction(numerator, denominator)
	err = f.Validate()

	return
}

func parseFlagHTTPCacheRedisAddrs(l cmdcommon.ListFlags) (addrs map[string]string, err error) {
	addrs = map[string]string{}
	for _, s := range l {
		sl := strings.SplitN(s, "=", 2)
		if len(sl) != 2 {
			err = fmt.Errorf("expected <name>=<host>:<port>")
			return
		}
		addrs[sl[0]] = sl[1]
	}

	return
}

func parseFlagsRun() {
	var err error

	if p, err := common.ParseEndpoint(flagEndpointString); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--endpoint", err)
	} else {
		serverEndpoint = p
		flagEndpointString = serverEndpoint.String()
	}

	queries := serverEndpoint.Query()
	if serverEndpoint.Scheme == "https" {
		if _, err = os.Stat(flagTLSCertFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(runCmd, "--tls-cert", err)
		}
		if _, err = os.Stat(flagTLSKeyFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(runCmd, "--tls-key", err)
		}
		queries.Add("TLSCertFile", flagTLSCertFile)
		queries.Add("TLSKeyFile", flagTLSKeyFile)
	}
	queries.Add("IdleTimeout", "3s")
	serverEndpoint.RawQuery = queries.Encode()

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--storage", err)
	}

	conf = common.NewConfig()

	if conf.VotingPeriod, err = time.ParseDuration(flagVotingPeriod); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--voting-period", err)
	}

	conf.DefaultPolicyType = flagPolicy
	if conf.DefaultPolicyCount, err = strconv.ParseUint(flagPolicyCount, 10, 64); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--policy-count", err)
	}
	if conf.DefaultPolicyPercent, err = parseFlagFraction(flagPolicyPercent); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--policy-percent", err)
	}
	if conf.DefaultPolicyQuorum, err = parseFlagFraction(flagPolicyQuorum); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--policy-quorum", err)
	}
	if conf.VetoFraction, err = parseFlagFraction(flagVeto); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--veto", err)
	}
	conf.AllowRevote = flagAllowRevote

	if err = voting.PolicyFromConfig(conf).Validate(); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--policy", err)
	}

	if conf.RateLimitRuleAPI, err = parseFlagRateLimit(flagRateLimitAPI, common.RateLimitAPI); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--rate-limit-api", err)
	}

	conf.HTTPCacheAdapter = flagHTTPCacheAdapter
	if conf.HTTPCachePoolSize, err = strconv.Atoi(flagHTTPCachePoolSize); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--http-cache-pool-size", err)
	}
	if conf.HTTPCacheRedisAddrs, err = parseFlagHTTPCacheRedisAddrs(flagHTTPCacheRedisAddrs); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--http-cache-redis-addrs", err)
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--log-level", err)
	}

	var logHandler logging.Handler

	var formatter logging.Format
	if isatty.IsTerminal(os.Stdout.Fd()) {
		formatter = logging.TerminalFormat()
	} else {
		formatter = common.JsonFormatEx(false, true)
	}
	logHandler = logging.StreamHandler(os.Stdout, formatter)

	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
	} else {
		if logHandler, err = logging.FileHandler(flagLogOutput, logging.JsonFormat()); err != nil {
			cmdcommon.PrintFlagsError(runCmd, "--log-output", err)
		}
	}

	logHandler = logging.CallerFileHandler(logHandler)

	log = logging.New("module", "main")
	log.SetHandler(logging.LvlFilterHandler(logLevel, logHandler))
	network.SetLogging(logLevel, logHandler)
	governance.SetLogging(logLevel, logHandler)
	runner.SetLogging(logLevel, logHandler)

	log.Info("Starting Agora")

	// print flags
	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tendpoint", flagEndpointString)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorageConfigString)
	parsedFlags = append(parsedFlags, "\n\ttls-cert", flagTLSCertFile)
	parsedFlags = append(parsedFlags, "\n\ttls-key", flagTLSKeyFile)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\tvoting-period", flagVotingPeriod)
	parsedFlags = append(parsedFlags, "\n\tpolicy", flagPolicy)
	parsedFlags = append(parsedFlags, "\n\tpolicy-count", flagPolicyCount)
	parsedFlags = append(parsedFlags, "\n\tpolicy-percent", flagPolicyPercent)
	parsedFlags = append(parsedFlags, "\n\tpolicy-quorum", flagPolicyQuorum)
	parsedFlags = append(parsedFlags, "\n\tveto", flagVeto)
	parsedFlags = append(parsedFlags, "\n\tallow-revote", flagAllowRevote)
	parsedFlags = append(parsedFlags, "\n\twebhook", flagWebhookURL)
	parsedFlags = append(parsedFlags, "\n\tgroup", flagGroupFile)
	parsedFlags = append(parsedFlags, "\n\trate-limit-api", conf.RateLimitRuleAPI)
	parsedFlags = append(parsedFlags, "\n\thttp-cache-adapter", flagHTTPCacheAdapter)

	log.Debug("parsed flags:", parsedFlags...)

	if flagVerbose {
		http2.VerboseLogs = true
	}
}

func runServer() {
	if len(flagNTPServer) > 0 {
		if err := common.CheckTimeSync(flagNTPServer); err != nil {
			log.Crit("local clock check failed", "server", flagNTPServer, "error", err)

			os.Exit(1)
		}
	}

	if len(flagGroupFile) > 0 {
		if err := seedGroup(flagGroupFile, flagStorageConfigString); err != nil {
			cmdcommon.PrintFlagsError(runCmd, "--group", err)
		}
	}

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)

		os.Exit(1)
	}

	var dispatcher governance.Dispatcher
	if len(flagWebhookURL) > 0 {
		dispatcher = governance.NewWebhookDispatcher(flagWebhookURL)
	}

	networkConfig, err := network.NewServerConfigFromEndpoint(serverEndpoint)
	if err != nil {
		cmdcommon.PrintFlagsError(runCmd, "--endpoint", err)
	}

	metrics.InitPrometheusMetrics()
	metrics.SetVersion()
	if total, err := membership.GetTotalWeight(st); err == nil {
		metrics.Governance.SetTotalWeight(uint64(total))
	}

	// Execution group.
	var g run.Group
	{
		r, err := runner.NewRunner(networkConfig, st, dispatcher, conf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		g.Add(func() error {
			if err := r.Start(); err != nil {
				log.Crit("failed to start server", "error", err)
				return err
			}
			return nil
		}, func(error) {
			r.Stop()
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
