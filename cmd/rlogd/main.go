// Command rlogd wires a store, a cluster, and a state machine into an
// RLog and drives it from a tiny stdin-line protocol, mirroring how the
// teacher's app/main.go wires db+raft+config into an AppNode before handing
// off to an HTTP API. There is no HTTP surface here — rlogd exists to
// exercise the raftlog package end to end, not to serve a client API.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/coldtoo/rlogcore/cluster"
	"github.com/coldtoo/rlogcore/config"
	"github.com/coldtoo/rlogcore/logging"
	"github.com/coldtoo/rlogcore/raftlog"
	"github.com/coldtoo/rlogcore/statemachine"
	"github.com/coldtoo/rlogcore/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; built-in defaults are used if omitted")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logging.Init(cfg.Zap)

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		logging.Fatal("open store").Err("err", err).Record()
	}

	members := make([]raftlog.Member, len(cfg.Raft.Nodes))
	for i, n := range cfg.Raft.Nodes {
		members[i] = raftlog.Member{ID: n.ID, Address: n.Address}
	}

	cl := cluster.New(db, members, cfg.Compaction.FixedLogSize)
	sm := statemachine.New()

	l, err := raftlog.New(db, cl, sm, raftlog.WithSnapshotRetention(cfg.Compaction.SnapshotRetention))
	if err != nil {
		logging.Fatal("construct raftlog").Err("err", err).Record()
	}
	defer l.Close()

	logging.Info("rlogd ready").Str("store", cfg.Store.Path).Record()
	runREPL(l, sm)
}

// runREPL drives the log core from simple stdin commands:
//
//	put <key> <value>   append a write command and commit it locally
//	get <key>            look the key up directly in the state machine
//	quit
//
// It is a debugging aid, not a client protocol — there is no replication
// across processes here, only the single local RLog's append/commit path.
func runREPL(l *raftlog.RLog, sm *statemachine.KV) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "put":
			if len(fields) != 3 {
				fmt.Println("usage: put <key> <value>")
				continue
			}
			entry := &raftlog.LogEntry{
				Index:   l.NextLogIndex(),
				Term:    1,
				Command: raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: fields[1], Value: []byte(fields[2])})),
			}
			l.Append([]*raftlog.LogEntry{entry})
			if err := l.Commit(entry); err != nil {
				fmt.Printf("commit error: %v\n", err)
			}

		case "get":
			if len(fields) != 2 {
				fmt.Println("usage: get <key>")
				continue
			}
			v, ok := sm.Get(fields[1])
			if !ok {
				fmt.Println("(nil)")
				continue
			}
			fmt.Println(string(v))

		case "quit":
			return

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}
