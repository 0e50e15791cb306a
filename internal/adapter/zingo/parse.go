package zingo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"
)

// ErrMalformedOutput is returned when zingo-cli output does not carry the
// fields a command is expected to produce.
var ErrMalformedOutput = errors.New("malformed zingo-cli output")

// poolKeys maps report keys to pools. Plain keys win over confirmed_ keys
// when both are present.
var poolKeys = map[string]struct {
	pool      string
	confirmed bool
}{
	"transparent_balance":           {"transparent", false},
	"sapling_balance":               {"sapling", false},
	"orchard_balance":               {"orchard", false},
	"confirmed_transparent_balance": {"transparent", true},
	"confirmed_sapling_balance":     {"sapling", true},
	"confirmed_orchard_balance":     {"orchard", true},
}

// ParseBalance reads a balance report, either a JSON object or "key: value"
// lines. Absent pools are zero; no recognised key at all is an error.
func ParseBalance(output string) (domain.Balance, error) {
	fields, err := balanceFields(output)
	if err != nil {
		return domain.Balance{}, err
	}

	plain := map[string]uint64{}
	confirmed := map[string]uint64{}
	for key, raw := range fields {
		pk, ok := poolKeys[key]
		if !ok || strings.TrimSpace(raw) == "null" {
			continue
		}
		v, err := parseAmount(raw)
		if err != nil {
			return domain.Balance{}, fmt.Errorf("%w: %s: %v", ErrMalformedOutput, key, err)
		}
		if pk.confirmed {
			confirmed[pk.pool] = v
		} else {
			plain[pk.pool] = v
		}
	}

	if len(plain) == 0 && len(confirmed) == 0 {
		return domain.Balance{}, fmt.Errorf("%w: no balance fields", ErrMalformedOutput)
	}

	pick := func(pool string) uint64 {
		if v, ok := plain[pool]; ok {
			return v
		}
		return confirmed[pool]
	}
	return domain.Balance{
		Transparent: pick("transparent"),
		Sapling:     pick("sapling"),
		Orchard:     pick("orchard"),
	}, nil
}

// balanceFields collects key/raw-value pairs from either output shape.
func balanceFields(output string) (map[string]string, error) {
	if obj, ok := extractObject(output); ok {
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			fields[k] = string(v)
		}
		return fields, nil
	}

	fields := map[string]string{}
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"{,`)
		if _, known := poolKeys[key]; known {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no balance fields", ErrMalformedOutput)
	}
	return fields, nil
}

func parseAmount(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ",")
	s = strings.Trim(s, `"`)
	s = strings.NewReplacer("_", "", ",", "").Replace(s)
	return strconv.ParseUint(s, 10, 64)
}

// ParseAddresses returns the first unified address, or the first address
// of any kind when no unified one is listed.
func ParseAddresses(output string) (string, error) {
	start := strings.Index(output, "[")
	end := strings.LastIndex(output, "]")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no address list", ErrMalformedOutput)
	}

	var entries []struct {
		Address        string `json:"address"`
		EncodedAddress string `json:"encoded_address"`
	}
	if err := json.Unmarshal([]byte(output[start:end+1]), &entries); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	var first string
	for _, e := range entries {
		addr := e.Address
		if addr == "" {
			addr = e.EncodedAddress
		}
		if addr == "" {
			continue
		}
		if strings.HasPrefix(addr, "u") {
			return addr, nil
		}
		if first == "" {
			first = addr
		}
	}
	if first == "" {
		return "", fmt.Errorf("%w: no addresses in wallet", ErrMalformedOutput)
	}
	return first, nil
}

// ParseSendResult extracts txid and error members from a send or shield
// report. The raw output is kept as the diagnostic.
func ParseSendResult(output string) *ports.SendResult {
	res := &ports.SendResult{Diagnostic: output}

	obj, ok := extractObject(output)
	if !ok {
		res.TxID = scanTxID(output)
		return res
	}

	if raw, ok := obj["error"]; ok && string(raw) != "null" {
		var msg string
		if json.Unmarshal(raw, &msg) != nil {
			msg = string(raw)
		}
		res.Error = msg
	}
	if raw, ok := obj["txid"]; ok {
		_ = json.Unmarshal(raw, &res.TxID)
	}
	if res.TxID == "" {
		if raw, ok := obj["txids"]; ok {
			var ids []string
			if json.Unmarshal(raw, &ids) == nil && len(ids) > 0 {
				res.TxID = ids[0]
			}
		}
	}
	return res
}

// scanTxID finds a quoted value on the first line mentioning txid.
func scanTxID(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "txid") {
			continue
		}
		_, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		parts := strings.Split(rest, `"`)
		if len(parts) >= 3 && parts[1] != "" {
			return parts[1]
		}
	}
	return ""
}

// extractObject decodes the outermost JSON object embedded in output.
func extractObject(output string) (map[string]json.RawMessage, bool) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(output[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
