package validators

// The only constraint on a VIN is the column's max length; format is not
// validated beyond that.
const MaxVINLength = 17

func IsVINValid(vin string) bool {
	return len(vin) <= MaxVINLength
}
