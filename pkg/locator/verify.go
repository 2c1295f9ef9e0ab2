package locator

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// ErrInvalidJavaScript is returned by VerifyJavaScript for code that does not
// compile.
var ErrInvalidJavaScript = errors.New("invalid javascript")

// VerifyJavaScript compiles `page.<expr>` as a strict-mode script without
// running it.
func VerifyJavaScript(expr string) (err error) {
	// the goja compiler can panic on malformed escapes
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidJavaScript, p)
		}
	}()

	if _, err := goja.Compile("locator.js", "page."+expr+";", true); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJavaScript, err)
	}
	return nil
}
