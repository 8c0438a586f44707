package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"unifex/adapters"
	"unifex/config"
	"unifex/exchange"
	"unifex/logger"
	"unifex/models"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	app := &cli.App{
		Name:  "unifex",
		Usage: "unified exchange API client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/config.yml",
				Usage:   "path to configuration file",
			},
			&cli.StringFlag{
				Name:    "exchange",
				Aliases: []string{"e"},
				Usage:   "exchange adapter id",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "exchanges",
				Usage: "list available exchange adapters",
				Action: func(c *cli.Context) error {
					return printJSON(adapters.Exchanges())
				},
			},
			{
				Name:  "markets",
				Usage: "list markets of an exchange",
				Action: func(c *cli.Context) error {
					ex, ctx, err := setup(c)
					if err != nil {
						return err
					}
					markets, err := ex.LoadMarkets(ctx, false)
					if err != nil {
						return err
					}
					return printJSON(markets)
				},
			},
			{
				Name:      "ticker",
				Usage:     "fetch the 24h ticker for a symbol",
				ArgsUsage: "SYMBOL",
				Action: func(c *cli.Context) error {
					ex, ctx, err := setup(c)
					if err != nil {
						return err
					}
					ticker, err := ex.FetchTicker(ctx, c.Args().First())
					if err != nil {
						return err
					}
					return printJSON(ticker)
				},
			},
			{
				Name:      "tickers",
				Usage:     "fetch all tickers, optionally filtered by symbols",
				ArgsUsage: "[SYMBOL...]",
				Action: func(c *cli.Context) error {
					ex, ctx, err := setup(c)
					if err != nil {
						return err
					}
					tickers, err := ex.FetchTickers(ctx, c.Args().Slice())
					if err != nil {
						return err
					}
					return printJSON(tickers)
				},
			},
			{
				Name:      "orderbook",
				Usage:     "fetch the order book for a symbol",
				ArgsUsage: "SYMBOL",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "levels per side"},
				},
				Action: func(c *cli.Context) error {
					ex, ctx, err := setup(c)
					if err != nil {
						return err
					}
					book, err := ex.FetchOrderBook(ctx, c.Args().First(), c.Int("limit"))
					if err != nil {
						return err
					}
					return printJSON(book)
				},
			},
			{
				Name:      "ohlcv",
				Usage:     "fetch candles for a symbol",
				ArgsUsage: "SYMBOL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "timeframe", Value: "1h"},
					&cli.Int64Flag{Name: "since", Usage: "start timestamp in ms"},
					&cli.IntFlag{Name: "limit", Value: 100},
				},
				Action: func(c *cli.Context) error {
					ex, ctx, err := setup(c)
					if err != nil {
						return err
					}
					candles, err := ex.FetchOHLCV(ctx, c.Args().First(), c.String("timeframe"), c.Int64("since"), c.Int("limit"))
					if err != nil {
						return err
					}
					return printJSON(candles)
				},
			},
			{
				Name:      "trades",
				Usage:     "fetch recent public trades for a symbol",
				ArgsUsage: "SYMBOL",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "since", Usage: "start timestamp in ms"},
					&cli.IntFlag{Name: "limit", Value: 50},
				},
				Action: func(c *cli.Context) error {
					ex, ctx, err := setup(c)
					if err != nil {
						return err
					}
					trades, err := ex.FetchTrades(ctx, c.Args().First(), c.Int64("since"), c.Int("limit"))
					if err != nil {
						return err
					}
					return printJSON(trades)
				},
			},
			{
				Name:  "balance",
				Usage: "fetch the account balance",
				Action: func(c *cli.Context) error {
					ex, ctx, err := setup(c)
					if err != nil {
						return err
					}
					balances, err := ex.FetchBalance(ctx)
					if err != nil {
						return err
					}
					return printJSON(balances)
				},
			},
			{
				Name:  "order",
				Usage: "manage orders",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						Usage:     "place an order",
						ArgsUsage: "SYMBOL SIDE TYPE AMOUNT [PRICE]",
						Action:    createOrder,
					},
					{
						Name:      "cancel",
						Usage:     "cancel an order by id",
						ArgsUsage: "ID [SYMBOL]",
						Action: func(c *cli.Context) error {
							ex, ctx, err := setup(c)
							if err != nil {
								return err
							}
							order, err := ex.CancelOrder(ctx, c.Args().Get(0), c.Args().Get(1))
							if err != nil {
								return err
							}
							return printJSON(order)
						},
					},
					{
						Name:      "get",
						Usage:     "fetch an order by id",
						ArgsUsage: "ID [SYMBOL]",
						Action: func(c *cli.Context) error {
							ex, ctx, err := setup(c)
							if err != nil {
								return err
							}
							order, err := ex.FetchOrder(ctx, c.Args().Get(0), c.Args().Get(1))
							if err != nil {
								return err
							}
							return printJSON(order)
						},
					},
					{
						Name:      "open",
						Usage:     "list open orders",
						ArgsUsage: "[SYMBOL]",
						Action: func(c *cli.Context) error {
							ex, ctx, err := setup(c)
							if err != nil {
								return err
							}
							orders, err := ex.FetchOpenOrders(ctx, c.Args().First(), 0, 0)
							if err != nil {
								return err
							}
							return printJSON(orders)
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

// setup loads configuration, configures the logger and constructs the
// adapter selected by the --exchange flag, with a signal-cancelled context.
func setup(c *cli.Context) (exchange.Exchange, context.Context, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	if level == "" {
		level = "info"
	}
	log := logger.GetLogger()
	if err := log.Configure(level, cfg.Logging.Format, cfg.Logging.Output, logger.FileConfig{
		Path:       cfg.Logging.File.Path,
		MaxSizeMB:  cfg.Logging.File.MaxSizeMB,
		MaxAgeDays: cfg.Logging.File.MaxAgeDays,
		MaxBackups: cfg.Logging.File.MaxBackups,
	}); err != nil {
		return nil, nil, err
	}

	id := c.String("exchange")
	if id == "" {
		return nil, nil, fmt.Errorf("the --exchange flag is required")
	}
	ex, err := adapters.New(id, cfg.Exchange(id), cfg.Client)
	if err != nil {
		return nil, nil, err
	}

	// stop is intentionally not deferred: the context lives until the
	// process exits.
	ctx, _ := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	return ex, ctx, nil
}

func createOrder(c *cli.Context) error {
	ex, ctx, err := setup(c)
	if err != nil {
		return err
	}
	args := c.Args()
	if args.Len() < 4 {
		return fmt.Errorf("usage: order create SYMBOL SIDE TYPE AMOUNT [PRICE]")
	}
	amount, err := strconv.ParseFloat(args.Get(3), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args.Get(3))
	}
	var price *float64
	if args.Len() > 4 {
		p, err := strconv.ParseFloat(args.Get(4), 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", args.Get(4))
		}
		price = &p
	}
	order, err := ex.CreateOrder(ctx, args.Get(0),
		models.OrderType(args.Get(2)), models.OrderSide(args.Get(1)),
		amount, price, nil)
	if err != nil {
		return err
	}
	return printJSON(order)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
