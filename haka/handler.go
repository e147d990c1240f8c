package haka

// Handler is the unit of application logic bound to a route or a
// static mount. It mutates the response in place and returns nothing;
// a panic during Serve is caught by the connection and converted to a
// 500 response.
type Handler interface {
	Serve(*Request, *Response)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(*Request, *Response)

func (f HandlerFunc) Serve(req *Request, res *Response) {
	f(req, res)
}
