package accessor

import (
	"fmt"
	"strings"

	"github.com/newthinker/zeno/internal/core"
)

// ParsePath splits "/<namespace>/<url>" into its two segments. Runs of
// '/' separate segments and anything after the url segment is ignored,
// so "///A//Home/extra" yields ("A", "Home"). A missing segment is
// reported as ErrArticleNotFound.
func ParsePath(path string) (namespace, url string, err error) {
	rest := strings.TrimLeft(path, "/")
	namespace, rest, _ = strings.Cut(rest, "/")
	rest = strings.TrimLeft(rest, "/")
	url, _, _ = strings.Cut(rest, "/")

	if namespace == "" || url == "" {
		return "", "", core.WrapError(core.ErrArticleNotFound, fmt.Errorf("malformed path %q", path))
	}
	return namespace, url, nil
}
