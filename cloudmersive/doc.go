// Package cloudmersive provides a client for the Cloudmersive Document and Data Convert API.
//
// The service performs the conversions; this package builds the requests,
// authenticates them with the Apikey header and decodes the answers.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: connection configuration shared by every call (base path, API key, timeout, cookies, retries)
//   - ConvertDataAPI: CSV/JSON/XML/XLSX transcoding and XPath/XQuery editing
//   - ConvertDocumentAPI: Office, PDF and HTML format conversions
//   - CompareDocumentAPI: DOCX comparison
//   - Errors: structured error types for classification
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := cloudmersive.NewClient(
//		cloudmersive.WithAPIKey("your-api-key"),
//		cloudmersive.WithLogger(logger),
//		cloudmersive.WithTimeout(2*time.Minute),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	docs := cloudmersive.NewConvertDocumentAPI(client)
//	input, _ := cloudmersive.ReadFile("report.docx")
//	pdf, err := docs.DocxToPdf(ctx, input)
//
// Endpoint groups created with a nil client use DefaultClient, which can be
// replaced with SetDefaultClient.
//
// # Error Handling
//
// Non-2xx answers are returned as *APIError and match the sentinels with errors.Is:
//
//	if errors.Is(err, cloudmersive.ErrUnauthorized) {
//		// Handle auth failure
//	}
//
// Result records whose Successful flag is false are returned together with an
// *OperationError wrapping ErrUnsuccessful.
package cloudmersive
