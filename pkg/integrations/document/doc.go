// Package document fetches public listing pages and runs the tiered
// extractor over them.
//
// Pages are plain GETs against the upstream origin:
//
//	search    {base}/s/{location}/homes?{filters}
//	detail    {base}/rooms/{id}
//	reviews   {base}/rooms/{id}?review_cursor={cursor}
//	calendar  {base}/rooms/{id}?calendar_months={n}
//	host      {base}/rooms/{id}
//
// Transport failures and 5xx responses are retried with linear backoff,
// taking a fresh rate-limit grant per attempt. 404 is final. 429 is final
// unless [Options.RetryOnThrottle] is set.
package document
