package progrock

import (
	"fmt"
	"io"
)

func writeAttribute(w io.Writer, key string, value any) {
	_, _ = fmt.Fprintf(w, "%s=%v\n", key, value)
}
