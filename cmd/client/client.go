// cmd/client is a minimal CLI exercising internal/server: it connects over
// TCP, submits one order (or a comma-separated batch of quantities at the
// same price), and prints execution/error reports as they arrive. Adapted
// from the teacher's cmd/client/client.go — CancelOrder and the log-book
// action are dropped along with internal/net, and order-type selection now
// spans LIMIT/MARKET/IOC/FOK instead of just limit/market.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fenrir/internal/common"
	"fenrir/internal/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the exchange server")
	owner := flag.String("owner", "", "Owner username (compulsory)")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "limit", "Order type: 'limit', 'market', 'ioc', or 'fok'")
	price := flag.String("price", "100", "Limit price (ignored for market orders)")
	qtyStr := flag.String("qty", "10", "Quantity, or a comma-separated list (e.g. 10,20,50)")
	flag.Parse()

	if *owner == "" {
		fmt.Println("Error: -owner is compulsory.")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("Failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s as %q\n", *serverAddr, *owner)

	go readReports(conn)

	side := common.Buy
	if strings.EqualFold(*sideStr, "sell") {
		side = common.Sell
	}

	orderType, err := parseOrderType(*typeStr)
	if err != nil {
		log.Fatal(err)
	}

	priceVal, err := decimal.NewFromString(*price)
	if err != nil {
		log.Fatalf("Invalid -price: %v", err)
	}

	for _, qty := range parseQuantities(*qtyStr) {
		msg := wire.NewOrderMessage{
			Side:      side,
			OrderType: orderType,
			Price:     priceVal,
			Quantity:  qty,
			Owner:     *owner,
		}
		if _, err := conn.Write(msg.Encode()); err != nil {
			log.Printf("Failed to send order (qty %s): %v", qty, err)
			continue
		}
		fmt.Printf("-> Sent %s %s %s @ %s\n", strings.ToUpper(*sideStr), strings.ToUpper(*typeStr), qty, priceVal)
		time.Sleep(5 * time.Millisecond)
	}

	fmt.Println("\nListening for reports... (Press Ctrl+C to exit)")
	select {}
}

func parseOrderType(s string) (common.OrderType, error) {
	switch strings.ToLower(s) {
	case "limit":
		return common.Limit, nil
	case "market":
		return common.Market, nil
	case "ioc":
		return common.IOC, nil
	case "fok":
		return common.FOK, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", s)
	}
}

func parseQuantities(input string) []decimal.Decimal {
	parts := strings.Split(input, ",")
	result := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		qty, err := decimal.NewFromString(p)
		if err != nil {
			log.Printf("Warning: invalid quantity %q, skipping", p)
			continue
		}
		result = append(result, qty)
	}
	return result
}

// readReports continuously reads and prints Report messages from the
// server until the connection closes.
func readReports(conn net.Conn) {
	buf := make([]byte, 4*1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if err != io.EOF {
				log.Printf("Connection lost: %v", err)
			}
			os.Exit(0)
		}

		report, err := wire.DecodeReport(buf[:n])
		if err != nil {
			log.Printf("Error decoding report: %v", err)
			continue
		}

		if report.Type == wire.ErrorReport {
			fmt.Printf("\n[SERVER ERROR] %s\n", report.Err)
			continue
		}

		sideStr := "BUY"
		if report.AggressorSide == common.Sell {
			sideStr = "SELL"
		}
		fmt.Printf("\n[EXECUTION] %s %s | Qty: %s | Price: %s | maker=%d taker=%d | makerFee=%s takerFee=%s\n",
			sideStr, report.Symbol, report.Quantity, report.Price,
			report.MakerOrderID, report.TakerOrderID, report.MakerFee, report.TakerFee)
	}
}
