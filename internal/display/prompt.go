package display

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirm writes question with a "(y/n)" hint to w and reads one line from
// r. Only "y" (any case) confirms; anything else, including end of input,
// declines. Surrounding spaces are not trimmed.
func Confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "\n%s (y/n): ", question)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.TrimRight(line, "\r\n")
	return strings.EqualFold(answer, "y"), nil
}
