package life

import "fmt"

// PartialID packs a (top, mid, next) window into the high 48 bits of a table
// key, leaving the low 16 bits (the bot field) clear. Candidate rows are then
// matched with the half-open range [id, id+0xFFFF].
//
// The table stores keys as signed 64-bit integers, so packings at or above
// 2^63 are re-based by subtracting 2^64; the int64 conversion is exactly that
// re-basing.
func PartialID(top, mid, next Row) int64 {
	u := uint64(top)<<48 | uint64(mid)<<32 | uint64(next)<<16
	return int64(u)
}

// SplitID recovers the four 16-bit fields of a packed table key.
func SplitID(id int64) (top, mid, next, bot Row) {
	u := uint64(id)
	return Row(u >> 48), Row(u >> 32), Row(u >> 16), Row(u)
}

// PackedParams maps a (top, mid) partial state to one packed key per
// generation: id[g] = PartialID(top[g], mid[g], mid[(g+1) mod P]). The next
// row is the mid row one phase ahead, which assumes no movement perpendicular
// to the rows.
func PackedParams(top, mid RowTuple) ([]int64, error) {
	period, err := checkTuples(top, mid)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, period)
	for g := 0; g < period; g++ {
		ids[g] = PartialID(top[g], mid[g], mid[(g+1)%period])
	}
	return ids, nil
}

// UnpackedParams maps a (top, mid) partial state to one (top, mid, next)
// triple per generation, flattened in generation order. Behaviorally
// equivalent to PackedParams against the same fixture table.
func UnpackedParams(top, mid RowTuple) ([]int64, error) {
	period, err := checkTuples(top, mid)
	if err != nil {
		return nil, err
	}
	params := make([]int64, 0, 3*period)
	for g := 0; g < period; g++ {
		params = append(params, int64(top[g]), int64(mid[g]), int64(mid[(g+1)%period]))
	}
	return params, nil
}

func checkTuples(top, mid RowTuple) (int, error) {
	if len(top) == 0 || len(top) != len(mid) {
		return 0, fmt.Errorf("%w: top has %d rows, mid has %d", ErrInvalidRows, len(top), len(mid))
	}
	return len(top), nil
}
