// Command history fetches daily history for one ticker and prints it as JSON.
//
//	history AAPL --start 2023-01-03 --end 2023-01-05
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stock_relay/internal/app/di"
	"stock_relay/internal/feature/history/transport/handler"
	"stock_relay/internal/feature/history/transport/http/dto"
	"stock_relay/internal/feature/history/usecase"
	"stock_relay/internal/platform/config"
	"stock_relay/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history TICKER",
		Short: "Print daily OHLCV rows for a ticker",
		Long: `Fetch daily history from the configured market provider and print it
in the same JSON shape as GET /stock/{ticker}.
Example: history AAPL --start 2023-01-03 --end 2023-01-05`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load(".env")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel)

			market, err := di.NewMarket(cfg, nil)
			if err != nil {
				return err
			}
			return run(cmd.Context(), usecase.NewHistoryUsecase(market), cmd.OutOrStdout(), args[0], start, end)
		},
	}

	cmd.Flags().String("start", "", "first day in YYYY-MM-DD format (inclusive)")
	cmd.Flags().String("end", "", "last day in YYYY-MM-DD format (inclusive)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// run はユースケースを一度実行し、HTTPと同じ形のJSONを w に書き出します。
// データなしはエラーではなく {"error": ...} を出力します。
func run(ctx context.Context, uc handler.HistoryUsecase, w io.Writer, ticker, start, end string) error {
	bars, err := uc.GetHistory(ctx, ticker, start, end)

	var result dto.HistoryResult
	switch {
	case err == nil:
		result = dto.Success(bars)
	case errors.Is(err, usecase.ErrNoData):
		slog.Debug("no data", "ticker", ticker, "start", start, "end", end)
		result = dto.NoData(dto.NoDataMessage)
	default:
		return err
	}

	enc := json.NewEncoder(w)
	return enc.Encode(result)
}
