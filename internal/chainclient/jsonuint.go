package chainclient

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// jsonUint decodes the node's integers, which arrive quoted or bare.
type jsonUint uint64

func (u *jsonUint) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", data, err)
	}
	*u = jsonUint(v)
	return nil
}

func (u jsonUint) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}
