// Fetches a public scorecard page with headless Chrome and dumps its
// rendered text. Score pages build their tables with JavaScript, so a
// plain HTTP GET returns an empty shell; chromedp waits for the
// rendered DOM.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: fetch-scorecard <url> [selector]")
		os.Exit(1)
	}
	pageURL := os.Args[1]
	selector := "body"
	if len(os.Args) > 2 {
		selector = os.Args[2]
	}

	fmt.Printf("=== Fetching scorecard ===\n")
	fmt.Printf("URL: %s\nSelector: %s\n\n", pageURL, selector)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var pageText string
	var finalURL string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Location(&finalURL),
		chromedp.Text(selector, &pageText, chromedp.ByQuery),
	)
	if err != nil {
		fmt.Printf("Failed to fetch page: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Final URL: %s\n", finalURL)
	fmt.Printf("--- rendered text (%d bytes) ---\n%s\n", len(pageText), pageText)
}
