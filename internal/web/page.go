package web

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/contentsheet/internal/core"
)

// Page is the upload page: pick a workbook kind and a file, then check it
// or download its documents.
func Page(kinds []core.KindInfo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		for _, k := range kinds {
			if _, err := fmt.Fprintf(w, `<option value="%s" title="%s">%s</option>`,
				templ.EscapeString(k.Key), templ.EscapeString(k.Description), templ.EscapeString(k.Label)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, pageTail)
		return err
	})
}

// ErrorAlert renders a failed check as an HTML fragment.
func ErrorAlert(resp ErrorResponse) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="alert error"><strong>%s</strong> <code>%s</code>`,
			templ.EscapeString(resp.Message), templ.EscapeString(resp.Code)); err != nil {
			return err
		}
		if resp.Detail != "" {
			where := resp.Sheet
			if where == "" {
				where = "workbook"
			}
			if _, err := fmt.Fprintf(w, `<p><em>%s</em>: %s</p>`,
				templ.EscapeString(where), templ.EscapeString(resp.Detail)); err != nil {
				return err
			}
		}
		if resp.Action != "" {
			if _, err := fmt.Fprintf(w, `<p>%s</p>`, templ.EscapeString(resp.Action)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// ValidAlert renders a passed check as an HTML fragment.
func ValidAlert(kind, workbook string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert ok"><strong>%s</strong> is a valid %s workbook.</div>`,
			templ.EscapeString(workbook), templ.EscapeString(kind))
		return err
	})
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>contentsheet</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 3rem auto; color: #222; }
form { display: grid; gap: .75rem; }
.alert { margin-top: 1.5rem; padding: .75rem 1rem; border-radius: .25rem; }
.alert.ok { background: #e7f6ea; }
.alert.error { background: #fdecea; }
</style>
</head>
<body>
<h1>Check a content workbook</h1>
<form id="upload">
<label>Workbook kind <select name="kind" id="kind">`

const pageTail = `</select></label>
<input type="file" name="file" accept=".xlsx" required>
<div>
<button type="submit" data-action="validate">Validate</button>
<button type="submit" data-action="parse">Download documents</button>
</div>
</form>
<div id="result"></div>
<script>
document.getElementById("upload").addEventListener("submit", async (e) => {
  e.preventDefault();
  const action = e.submitter.dataset.action;
  const kind = document.getElementById("kind").value;
  const body = new FormData(e.target);
  const result = document.getElementById("result");
  const res = await fetch("/api/" + action + "/" + kind, { method: "POST", body, headers: { Accept: "text/html" } });
  if (action === "parse" && res.ok) {
    const blob = await res.blob();
    const name = (res.headers.get("Content-Disposition") || "").split("filename=")[1] || "documents.json";
    const a = document.createElement("a");
    a.href = URL.createObjectURL(blob);
    a.download = name.replaceAll('"', "");
    a.click();
    result.innerHTML = "";
    return;
  }
  result.innerHTML = await res.text();
});
</script>
</body>
</html>
`
