// wclget is a one-shot query tool for the Warcraft Logs v1 API. It formats
// one request, prints the raw JSON body to stdout, and exits.
//
//	wclget -p metric=dps -p class=11 encounter-rankings 611
//	wclget guild-reports "not like this" herod US
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/guildwatch-hq/wcl-harvester/internal/config"
	"github.com/guildwatch-hq/wcl-harvester/pkg/httpclient"
	"github.com/guildwatch-hq/wcl-harvester/pkg/wcl"
)

const usage = `usage: wclget [flags] <operation> [identifiers...]

operations:
  zones
  classes
  encounter-rankings <encounterID>
  character-rankings <character> <server> <region>
  character-parses   <character> <server> <region>
  guild-reports      <guild> <server> <region>
  user-reports       <user>
  fights             <code>
  events             <view> <code>
  tables             <view> <code>

flags:
`

// paramsFlag collects repeatable -p key=value arguments in order.
type paramsFlag struct {
	params *wcl.Params
}

func (p *paramsFlag) String() string { return "" }

func (p *paramsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if p.params == nil {
		p.params = wcl.NewParams()
	}
	p.params.Set(key, value)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wclget: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var params paramsFlag
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	timeout := flag.Duration("timeout", 0, "request timeout (default from config)")
	base := flag.String("base", "", "API base URL (default from config)")
	flag.Var(&params, "p", "query parameter as key=value (repeatable, insertion order kept)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("missing operation")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *base == "" {
		*base = cfg.APIBaseURL
	}
	if *timeout <= 0 {
		*timeout = cfg.RequestTimeout
	}

	client, err := wcl.New(*base, cfg.APIKey,
		wcl.WithTransport(httpclient.NewRestyClient(*timeout)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	raw, err := dispatch(ctx, client, flag.Args(), params.params)
	if err != nil {
		return err
	}

	if *pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("indent response: %w", err)
		}
		raw = buf.Bytes()
	}
	fmt.Println(string(raw))
	return nil
}

func dispatch(ctx context.Context, c *wcl.Client, args []string, params *wcl.Params) (json.RawMessage, error) {
	op, rest := args[0], args[1:]

	need := func(n int) error {
		if len(rest) != n {
			return fmt.Errorf("%s expects %d identifier(s), got %d", op, n, len(rest))
		}
		return nil
	}

	switch op {
	case "zones":
		return c.Zones(ctx)
	case "classes":
		return c.Classes(ctx)
	case "encounter-rankings":
		if err := need(1); err != nil {
			return nil, err
		}
		id, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, fmt.Errorf("encounterID must be numeric: %q", rest[0])
		}
		return c.EncounterRankings(ctx, id, params)
	case "character-rankings":
		if err := need(3); err != nil {
			return nil, err
		}
		return c.CharacterRankings(ctx, rest[0], rest[1], rest[2], params)
	case "character-parses":
		if err := need(3); err != nil {
			return nil, err
		}
		return c.CharacterParses(ctx, rest[0], rest[1], rest[2], params)
	case "guild-reports":
		if err := need(3); err != nil {
			return nil, err
		}
		return c.GuildReports(ctx, rest[0], rest[1], rest[2], params)
	case "user-reports":
		if err := need(1); err != nil {
			return nil, err
		}
		return c.UserReports(ctx, rest[0], params)
	case "fights":
		if err := need(1); err != nil {
			return nil, err
		}
		return c.ReportFights(ctx, rest[0], params)
	case "events":
		if err := need(2); err != nil {
			return nil, err
		}
		return c.ReportEvents(ctx, rest[0], rest[1], params)
	case "tables":
		if err := need(2); err != nil {
			return nil, err
		}
		return c.ReportTables(ctx, rest[0], rest[1], params)
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}
