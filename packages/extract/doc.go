// Package extract pulls values out of received responses using short
// expressions written by test authors.
//
// Supported expressions:
//   - Attributes: status_code, url, ok, encoding, text
//   - JMESPath over headers and cookies: headers.Content-Type, cookies.session
//   - JMESPath over the JSON body: body.items[0].id, content.data
//   - JSONPath over the JSON body: $.data.token, $.items[*].id
//   - Non-greedy regular expressions over the raw text: "token":"(.+?)"
//
// Anything else is returned verbatim, so a field may hold either a literal
// or an expression. Three carriers are understood: *http.Response,
// ws.Message and RawJSON. The expression vocabulary is reinterpreted per
// carrier; see Classify for the exact precedence.
package extract
