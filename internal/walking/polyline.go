package walking

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// Valhalla encodes shapes with six decimal places; map clients expect five.
var valhallaCodec = polyline.Codec{Dim: 2, Scale: 1e6}

// ReencodeShape converts a precision-6 encoded polyline to precision 5.
func ReencodeShape(shape string) (string, error) {
	if shape == "" {
		return "", nil
	}
	coords, rest, err := valhallaCodec.DecodeCoords([]byte(shape))
	if err != nil {
		return "", fmt.Errorf("error decoding route shape: %w", err)
	}
	if len(rest) != 0 {
		return "", fmt.Errorf("error decoding route shape: %d trailing bytes", len(rest))
	}
	return string(polyline.EncodeCoords(coords)), nil
}

// DecodeShape returns the [lat, lon] pairs of a precision-5 polyline.
func DecodeShape(shape string) ([][]float64, error) {
	coords, _, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		return nil, fmt.Errorf("error decoding polyline: %w", err)
	}
	return coords, nil
}
