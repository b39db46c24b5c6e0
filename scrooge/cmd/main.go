package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Luismorlan/scrooge_in_go/config"
	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/scenario"
	"github.com/Luismorlan/scrooge_in_go/scrooge"
	"github.com/btcsuite/btclog"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/pflag"
)

var (
	configPath   *string
	scenarioPath *string
	selector     *string
	compare      *bool
	showMetrics  *bool
)

func init() {
	configPath = pflag.String("config_path", "scrooge/cmd/config.yaml", "path to scrooge config")
	scenarioPath = pflag.String("scenario", "scenario/testdata/conflict.yaml", "path to the batch scenario")
	selector = pflag.String("selector", "", "greedy or maxfee, overrides the config")
	compare = pflag.Bool("compare", false, "run both selectors and print their total fee")
	showMetrics = pflag.Bool("metrics", false, "print the collected metrics after the epoch")
}

func main() {
	pflag.Parse()

	cfg, err := config.ParseAppConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if *selector != "" {
		cfg.SELECTOR = *selector
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	log := setupLoggers(os.Stdout, cfg.LOG_LEVEL)

	sc, err := scenario.Load(*scenarioPath, cfg.SIGNATURE_SCHEME)
	if err != nil {
		log.Criticalf("Failed to load scenario: %v", err)
		os.Exit(1)
	}

	if *compare {
		for _, sel := range []string{config.SelectorGreedy, config.SelectorMaxFee} {
			c := cfg
			c.SELECTOR = sel
			e, err := runEpoch(c, sc)
			if err != nil {
				log.Criticalf("%v", err)
				os.Exit(1)
			}
			log.Infof("%s: %d transactions, fee %f", sel, len(e.Txs), e.Fee)
		}
		return
	}

	reg := prometheus.NewRegistry()
	s, err := scrooge.NewScrooge(cfg, sc.Genesis, reg)
	if err != nil {
		log.Criticalf("%v", err)
		os.Exit(1)
	}
	for _, tx := range sc.Batch {
		if err := s.SubmitTransaction(tx); err != nil {
			log.Warnf("Skipping %s: %v", sc.Name(tx.Hash), err)
		}
	}
	e := s.HandleEpoch()
	printEpoch(log, sc, e, s.GetLedgerSnapshot())
	if *showMetrics {
		printMetrics(log, reg)
	}
}

func runEpoch(c config.AppConfig, sc *scenario.Scenario) (*model.Epoch, error) {
	s, err := scrooge.NewScrooge(c, sc.Genesis, nil)
	if err != nil {
		return nil, err
	}
	for _, tx := range sc.Batch {
		if err := s.SubmitTransaction(tx); err != nil {
			return nil, err
		}
	}
	return s.HandleEpoch(), nil
}

func printEpoch(log btclog.Logger, sc *scenario.Scenario, e *model.Epoch, l *model.Ledger) {
	names := make([]string, 0, len(e.Txs))
	for _, tx := range e.Txs {
		names = append(names, sc.Name(tx.Hash))
	}
	log.Infof("Accepted [%s], fee %f", strings.Join(names, ", "), e.Fee)

	balances := make(map[string]float64)
	for _, o := range l.L {
		balances[sc.Owner(o.PublicKey)] += o.Value
	}
	owners := make([]string, 0, len(balances))
	for owner := range balances {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	for _, owner := range owners {
		log.Infof("%s: %f", owner, balances[owner])
	}
}

func printMetrics(log btclog.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Errorf("Failed to gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			log.Infof("%s{%s} %f", mf.GetName(), strings.Join(labels, ","), metricValue(mf.GetType(), m))
		}
	}
}

func metricValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}
