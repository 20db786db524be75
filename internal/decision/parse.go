package decision

import (
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// responseSchema pins down field TYPES without requiring optional fields.
// tighten_sl is historically sent as either a bool or a 0/1 number.
const responseSchema = `{
  "type": "object",
  "required": ["action"],
  "properties": {
    "action": {"type": "string"},
    "atr": {"type": "number"},
    "news_risk_multiplier": {"type": "number"},
    "tighten_sl": {"type": ["boolean", "number"]},
    "sl_atr_mult": {"type": "number"},
    "confidence": {"type": "number"},
    "reason": {"type": "string"},
    "message": {"type": "string"}
  }
}`

var compiledSchema = jsonschema.MustCompileString("predict-response.json", responseSchema)

// ParseResponse turns a raw service response body into a sanitized
// Decision. Any structural problem is an error; the caller substitutes
// SafeHold. Out-of-range optional fields are sanitized, not rejected.
func ParseResponse(raw []byte) (Decision, error) {
	body, err := coerceResponseObject(string(raw))
	if err != nil {
		return Decision{}, err
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(body))
	if err != nil {
		return Decision{}, fmt.Errorf("decoding response failed: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return Decision{}, fmt.Errorf("response schema violation: %w", err)
	}

	parsed := gjson.Parse(body)
	d := Decision{
		Action:     ParseAction(parsed.Get("action").String()),
		ATR:        parsed.Get("atr").Float(),
		Confidence: parsed.Get("confidence").Float(),
		Reason:     strings.TrimSpace(parsed.Get("reason").String()),
		ReceivedAt: time.Now(),
	}
	if d.ATR < 0 {
		d.ATR = 0
	}

	d.NewsRiskMultiplier = 1
	if mult := parsed.Get("news_risk_multiplier"); mult.Exists() {
		if v := mult.Float(); v > 0 && v <= 1 {
			d.NewsRiskMultiplier = v
		}
	}

	if tighten := parsed.Get("tighten_sl"); tighten.Exists() {
		d.TightenStopLoss = tighten.Bool()
	}
	if d.TightenStopLoss {
		if v := parsed.Get("sl_atr_mult").Float(); v > 0 {
			d.StopLossATRMult = v
		}
	}
	return d, nil
}

// coerceResponseObject tolerates the two shapes the service has shipped:
// a bare decision object, or the object wrapped as {"decision": {...}}.
func coerceResponseObject(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty response body")
	}
	if !gjson.Valid(raw) {
		return "", fmt.Errorf("response is not valid JSON")
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return "", fmt.Errorf("response root must be a JSON object")
	}
	if wrapped := parsed.Get("decision"); wrapped.Exists() && wrapped.IsObject() {
		return wrapped.Raw, nil
	}
	return raw, nil
}
