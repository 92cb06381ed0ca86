package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/hftx/internal/usecase/exchange"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

func main() {
	totalOrders := flag.Int("orders", 500000, "number of orders to submit")
	priceLevels := flag.Int64("price-levels", 200, "unique price levels around the mid")
	basePrice := flag.Int64("base-price", 10000, "mid price in ticks used for randomization")
	symbol := flag.String("symbol", "SIM", "symbol to trade")
	cancelEvery := flag.Int("cancel-every", 0, "cancel a randomly chosen earlier order every N submissions")
	eagerCancel := flag.Bool("eager-cancel", false, "use eager instead of lazy cancellation")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ex := exchange.New([]string{*symbol}, log)

	var trades, cancelled int
	var ids []orderbookv1.OrderID

	start := time.Now()
	for i := 0; i < *totalOrders; i++ {
		if *cancelEvery > 0 && len(ids) > 0 && i%*cancelEvery == 0 {
			ok, _ := ex.Cancel(ctx, *symbol, ids[rng.Intn(len(ids))], *eagerCancel)
			if ok {
				cancelled++
			}
		}

		side := orderbookv1.Side(rng.Intn(2))
		var price int64
		if side == orderbookv1.Bid {
			price = *basePrice - rng.Int63n(*priceLevels)
		} else {
			price = *basePrice + rng.Int63n(*priceLevels) - *priceLevels/4
		}
		if price <= 0 {
			price = 1
		}

		id, executed, err := ex.SubmitLimit(ctx, *symbol, side, price, 1+rng.Int63n(50))
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
		trades += len(executed)
	}
	elapsed := time.Since(start)

	depth, _ := ex.Depth(*symbol, 5)
	fmt.Printf("orders:    %d\n", *totalOrders)
	fmt.Printf("trades:    %d\n", trades)
	fmt.Printf("cancelled: %d\n", cancelled)
	fmt.Printf("elapsed:   %s (%.0f orders/sec)\n", elapsed, float64(*totalOrders)/elapsed.Seconds())
	fmt.Printf("book:      %d bid levels, %d ask levels\n", depth.BidLevelCount, depth.AskLevelCount)
	if depth.BestBid != nil && depth.BestAsk != nil {
		fmt.Printf("top:       %d / %d\n", *depth.BestBid, *depth.BestAsk)
	}
}
