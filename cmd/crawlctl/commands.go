package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bahjat/crawl-insight/internal/crawlclient"
	"github.com/Bahjat/crawl-insight/internal/crawlview"
	"github.com/Bahjat/crawl-insight/internal/dashboard"
	"github.com/Bahjat/crawl-insight/internal/model"
	"github.com/Bahjat/crawl-insight/internal/platform/config"
	"github.com/Bahjat/crawl-insight/internal/platform/logger"
	"github.com/Bahjat/crawl-insight/internal/render"
	"github.com/urfave/cli/v2"
)

const defaultTimeout = 120 * time.Second

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json or yaml",
			Value:   string(render.FormatTable),
		},
		&cli.BoolFlag{
			Name:  "expand",
			Usage: "show every record with performance metrics, images and text",
		},
	}
}

func crawlCommand() *cli.Command {
	return &cli.Command{
		Name:  "crawl",
		Usage: "crawl a list of URLs through the backend and summarize the result",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "URL to crawl (repeatable)",
			},
			&cli.StringFlag{
				Name:    "urls-file",
				Aliases: []string{"f"},
				Usage:   "file with one URL per line, or - for stdin",
			},
			&cli.IntFlag{
				Name:  "max-size",
				Usage: fmt.Sprintf("page size limit in KB (1-%d)", model.MaxSizeKBLimit),
				Value: model.DefaultMaxSizeKB,
			},
			&cli.StringFlag{
				Name:  "content-type",
				Usage: "what to extract: all, images or text",
				Value: string(model.ContentAll),
			},
		}, outputFlags()...),
		Action: crawlAction,
	}
}

func summarizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "summarize",
		Usage: "summarize a saved backend response without crawling",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "backend response JSON file, or - for stdin",
				Required: true,
			},
		}, outputFlags()...),
		Action: summarizeAction,
	}
}

func crawlAction(c *cli.Context) error {
	format, err := render.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}
	if err := config.ValidateBaseURL("--backend", c.String("backend")); err != nil {
		return err
	}

	urls, err := readURLs(c.App.Reader, c.String("urls-file"), c.StringSlice("url"))
	if err != nil {
		return err
	}
	req := model.NewCrawlRequest(urls, c.Int("max-size"), model.ContentType(c.String("content-type")))
	if err := req.Validate(); err != nil {
		return err
	}

	svc := newService(c, crawlclient.New(c.String("backend"), c.Duration("timeout")))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := svc.Crawl(ctx, req)
	if err != nil {
		return err
	}

	return render.Write(c.App.Writer, format, render.NewReport(summary, expandOf(c)))
}

func summarizeAction(c *cli.Context) error {
	format, err := render.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	resp, err := readResponse(c.App.Reader, c.String("input"))
	if err != nil {
		return err
	}

	svc := newService(c, nil)
	summary := svc.Summarize(c.Context, resp)

	return render.Write(c.App.Writer, format, render.NewReport(summary, expandOf(c)))
}

func newService(c *cli.Context, provider dashboard.CrawlProvider) *dashboard.Service {
	log := logger.New(c.String("log-level"), c.App.ErrWriter)
	rewriter := crawlview.NewRewriter(c.String("proxy-base"))
	return dashboard.NewService(provider, rewriter, log)
}

func expandOf(c *cli.Context) render.Expand {
	if c.Bool("expand") {
		return render.ExpandAll
	}
	return render.ExpandNone
}

func readResponse(stdin io.Reader, path string) (*model.CrawlResponse, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var resp model.CrawlResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode backend response %s: %w", path, err)
	}
	return &resp, nil
}
