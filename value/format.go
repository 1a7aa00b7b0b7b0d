package value

import "strconv"

func formatInt(i int32) string    { return strconv.FormatInt(int64(i), 10) }
func formatFloat(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }
func formatBool(b bool) string     { return strconv.FormatBool(b) }
