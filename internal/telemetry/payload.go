// internal/telemetry/payload.go
package telemetry

import "encoding/json"

// Fields is the fixed telemetry field set.
var Fields = []string{
	"sens_temp_c",
	"sens_rh_pct",
	"feed_t_c",
	"feed_p_kPa",
	"feed_f_kg_s",
	"prod_t_c",
	"prod_p_kPa",
	"prod_f_kg_s",
}

// Payload maps row onto the fixed field set. Missing fields are 0 and
// extra columns are dropped.
func Payload(row Row) map[string]float64 {
	out := make(map[string]float64, len(Fields))
	for _, f := range Fields {
		out[f] = row.Fields[f]
	}
	return out
}

// EncodePayload is Payload as JSON.
func EncodePayload(row Row) ([]byte, error) {
	return json.Marshal(Payload(row))
}
