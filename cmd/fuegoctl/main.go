package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/fuego-project/fuego-api/pkg/client"
	"github.com/fuego-project/fuego-api/pkg/logging"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	nodeURLEnv   = "FUEGO_NODE_URL"
	walletURLEnv = "FUEGO_WALLET_URL"
)

var version = "v0.0.0"

var errUsage = errors.New("invalid usage")

type config struct {
	nodeURL     string
	walletURL   string
	timeout     time.Duration
	waitTimeout time.Duration
	metrics     bool
	showHelp    bool
	showVersion bool
	logging     logging.Parameters

	to         []string
	paymentID  string
	mixin      uint64
	unlockTime uint64
	ttl        uint64
	messages   string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

func newFlagSet(cfg *config, getenv func(string) string) *flag.FlagSet {
	fs := flag.NewFlagSet("fuegoctl", flag.ContinueOnError)
	nodeURL := getenv(nodeURLEnv)
	if nodeURL == "" {
		nodeURL = client.DefaultBaseURL
	}
	walletURL := getenv(walletURLEnv)
	if walletURL == "" {
		walletURL = nodeURL
	}
	fs.StringVarP(&cfg.nodeURL, "node", "n", nodeURL, "Base URL of the node API, env "+nodeURLEnv)
	fs.StringVarP(&cfg.walletURL, "wallet", "w", walletURL, "Base URL of the wallet API, env "+walletURLEnv)
	fs.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "Timeout of a single request, 0 disables it")
	fs.DurationVar(&cfg.waitTimeout, "wait-timeout", time.Minute, "How long the wait command polls the gateway")
	fs.BoolVar(&cfg.metrics, "metrics", false, "Log request metrics before exit")
	fs.BoolVarP(&cfg.showHelp, "help", "h", false, "Print usage information (this message) and quit")
	fs.BoolVarP(&cfg.showVersion, "version", "v", false, "Print version information and quit")
	fs.StringArrayVar(&cfg.to, "to", nil, "Transfer destination as <address>:<amount>, repeatable")
	fs.StringVar(&cfg.paymentID, "payment-id", "", "Transfer payment ID")
	fs.Uint64Var(&cfg.mixin, "mixin", 0, "Transfer mixin count")
	fs.Uint64Var(&cfg.unlockTime, "unlock-time", 0, "Transfer unlock time")
	fs.Uint64Var(&cfg.ttl, "ttl", 0, "Transfer time to live")
	fs.StringVar(&cfg.messages, "messages", "", "Transfer messages as a JSON value")
	cfg.logging.Initialize(fs)
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	cfg := new(config)
	fs := newFlagSet(cfg, getenv)
	fs.SetOutput(stderr)
	fs.Usage = func() { showUsage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if cfg.showHelp {
		showUsage(fs, stdout)
		return exitOK
	}
	if cfg.showVersion {
		_, _ = fmt.Fprintf(stdout, "fuegoctl %s\n", version)
		return exitOK
	}
	if err := cfg.logging.Parse(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log := slog.New(logging.NewHandler(cfg.logging.Type, cfg.logging.Level, stderr)).
		With(logging.Namespace("fuegoctl"))

	if fs.NArg() == 0 {
		showUsage(fs, stderr)
		return exitUsage
	}

	reg := prometheus.NewRegistry()
	c, err := newClient(cfg, reg)
	if err != nil {
		log.Error("Failed to create client", logging.Error(err))
		return exitUsage
	}
	log.Debug("Client created", slog.String("node", c.node.BaseURL()), slog.String("wallet", c.wallet.BaseURL()))

	res, err := c.execute(ctx, log, cfg, fs)
	if cfg.metrics {
		logMetrics(log, reg)
	}
	if err != nil {
		if errors.Is(err, errUsage) {
			log.Error("Invalid command", logging.Error(err))
			showUsage(fs, stderr)
			return exitUsage
		}
		log.Error("Request failed", logging.Error(err), slog.Int("status", client.StatusCode(err)))
		return exitFailure
	}
	if err := printJSON(stdout, res); err != nil {
		log.Error("Failed to print result", logging.Error(err))
		return exitFailure
	}
	return exitOK
}

func httpClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

type clients struct {
	node   *client.NodeClient
	wallet *client.WalletClient
}

func newClient(cfg *config, reg prometheus.Registerer) (*clients, error) {
	doer, err := client.NewInstrumentedDoer(httpClient(cfg.timeout), reg)
	if err != nil {
		return nil, err
	}
	nc, err := client.NewNodeClient(client.Options{BaseURL: cfg.nodeURL, Client: doer})
	if err != nil {
		return nil, errors.Wrap(err, "invalid node URL")
	}
	wc, err := client.NewWalletClient(client.Options{BaseURL: cfg.walletURL, Client: doer})
	if err != nil {
		return nil, errors.Wrap(err, "invalid wallet URL")
	}
	return &clients{node: nc, wallet: wc}, nil
}

func (c *clients) execute(ctx context.Context, log *slog.Logger, cfg *config, fs *flag.FlagSet) (client.Value, error) {
	cmd, args := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "health":
		return discardResponse(c.node.Health(ctx))
	case "info":
		return discardResponse(c.node.Info(ctx))
	case "height":
		return discardResponse(c.node.Height(ctx))
	case "blockcount":
		return discardResponse(c.node.BlockCount(ctx))
	case "last-header":
		return discardResponse(c.node.LastBlockHeader(ctx))
	case "header":
		if len(args) != 1 {
			return nil, errors.Wrap(errUsage, "header expects a height")
		}
		h, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errUsage, "invalid height '%s'", args[0])
		}
		return discardResponse(c.node.BlockHeaderByHeight(ctx, h))
	case "balance":
		return discardResponse(c.wallet.Balance(ctx))
	case "wallet-height":
		return discardResponse(c.wallet.Height(ctx))
	case "transfers":
		var filter any
		if len(args) > 0 {
			if !json.Valid([]byte(args[0])) {
				return nil, errors.Wrap(errUsage, "filter must be a JSON value")
			}
			filter = json.RawMessage(args[0])
		}
		return discardResponse(c.wallet.Transfers(ctx, filter))
	case "transfer":
		req, err := transferRequest(cfg, fs)
		if err != nil {
			return nil, err
		}
		log.Info("Sending transfer", slog.Int("destinations", len(req.Destinations)))
		return discardResponse(c.wallet.Transfer(ctx, req))
	case "optimize":
		return discardResponse(c.wallet.Optimize(ctx))
	case "status":
		return c.status(ctx)
	case "wait":
		return c.wait(ctx, log, cfg.waitTimeout)
	default:
		return nil, errors.Wrapf(errUsage, "unknown command '%s'", cmd)
	}
}

func discardResponse(v client.Value, _ *client.Response, err error) (client.Value, error) {
	return v, err
}

func transferRequest(cfg *config, fs *flag.FlagSet) (client.TransferRequest, error) {
	if len(cfg.to) == 0 {
		return client.TransferRequest{}, errors.Wrap(errUsage, "transfer needs at least one --to destination")
	}
	destinations := make([]client.Destination, 0, len(cfg.to))
	for _, t := range cfg.to {
		d, err := parseDestination(t)
		if err != nil {
			return client.TransferRequest{}, err
		}
		destinations = append(destinations, d)
	}
	req := client.NewTransferRequest(destinations...)
	if fs.Changed("payment-id") {
		req = req.WithPaymentID(cfg.paymentID)
	}
	if fs.Changed("mixin") {
		req = req.WithMixin(cfg.mixin)
	}
	if fs.Changed("unlock-time") {
		req = req.WithUnlockTime(cfg.unlockTime)
	}
	if fs.Changed("ttl") {
		req = req.WithTTL(cfg.ttl)
	}
	if fs.Changed("messages") {
		if !json.Valid([]byte(cfg.messages)) {
			return client.TransferRequest{}, errors.Wrap(errUsage, "messages must be a JSON value")
		}
		req = req.WithMessages(client.Value(cfg.messages))
	}
	return req, nil
}

func parseDestination(s string) (client.Destination, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return client.Destination{}, errors.Wrapf(errUsage, "invalid destination '%s'", s)
	}
	amount, err := strconv.ParseUint(s[i+1:], 10, 64)
	if err != nil {
		return client.Destination{}, errors.Wrapf(errUsage, "invalid amount in destination '%s'", s)
	}
	return client.Destination{Address: s[:i], Amount: amount}, nil
}

// status requests node and wallet heights concurrently.
func (c *clients) status(ctx context.Context) (client.Value, error) {
	var nodeHeight, blockCount, walletHeight client.Value
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, _, err := c.node.Height(gctx)
		if err != nil {
			return errors.Wrap(err, "failed to get node height")
		}
		nodeHeight = v
		return nil
	})
	g.Go(func() error {
		v, _, err := c.node.BlockCount(gctx)
		if err != nil {
			return errors.Wrap(err, "failed to get block count")
		}
		blockCount = v
		return nil
	})
	g.Go(func() error {
		v, _, err := c.wallet.Height(gctx)
		if err != nil {
			return errors.Wrap(err, "failed to get wallet height")
		}
		walletHeight = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]client.Value{
		"node_height":   nodeHeight,
		"blockcount":    blockCount,
		"wallet_height": walletHeight,
	})
}

// wait polls the health endpoint until it answers or the timeout expires.
func (c *clients) wait(ctx context.Context, log *slog.Logger, timeout time.Duration) (client.Value, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	bo := backoff.WithContext(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(100*time.Millisecond),
			backoff.WithMaxInterval(5*time.Second),
			backoff.WithMaxElapsedTime(timeout),
		), waitCtx,
	)
	var res client.Value
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		v, _, err := c.node.Health(waitCtx)
		if err != nil {
			if client.IsURLError(err) {
				return backoff.Permanent(err)
			}
			log.Debug("Gateway is not ready", slog.Int("attempt", attempt), logging.Error(err))
			return err
		}
		res = v
		return nil
	}, bo)
	if err != nil {
		if ctx.Err() == nil && bo.NextBackOff() == backoff.Stop {
			return nil, errors.Wrap(err, "reached wait deadline")
		}
		return nil, err
	}
	log.Info("Gateway is ready", slog.Int("attempts", attempt))
	return res, nil
}

func printJSON(w io.Writer, v client.Value) error {
	buf := new(bytes.Buffer)
	if err := json.Indent(buf, v, "", "  "); err != nil {
		return errors.Wrap(err, "invalid JSON result")
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func showUsage(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: fuegoctl [flags] <command> [args]")
	_, _ = fmt.Fprintln(w, "commands: health, info, height, blockcount, last-header, header <height>,")
	_, _ = fmt.Fprintln(w, "          balance, wallet-height, transfers [filter-json], transfer, optimize, status, wait")
	_, _ = fmt.Fprint(w, fs.FlagUsages())
}
