package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

// Secondary sink for raw prediction-service traffic. Kept out of the main
// log so a noisy service cannot drown operator-facing lines.

var (
	decisionMu   sync.Mutex
	decisionLog  *log.Logger
	dumpPayloads bool
)

func SetDecisionWriter(w io.Writer) {
	decisionMu.Lock()
	defer decisionMu.Unlock()
	if w == nil {
		decisionLog = nil
		return
	}
	decisionLog = log.New(w, "", log.LstdFlags)
}

func EnablePayloadDump(enabled bool) {
	decisionMu.Lock()
	dumpPayloads = enabled
	decisionMu.Unlock()
}

// DumpDecision records one request/response exchange with the prediction
// service. Payloads are included only when payload dumping is enabled.
func DumpDecision(symbol, stage, payload string) {
	decisionMu.Lock()
	sink := decisionLog
	dump := dumpPayloads
	decisionMu.Unlock()
	if sink == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[PREDICT][")
	b.WriteString(symbol)
	b.WriteString("][")
	b.WriteString(stage)
	b.WriteString("]")
	if dump && strings.TrimSpace(payload) != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(payload))
	}
	sink.Println(b.String())
}
