// Package soapapi exposes the agents collection through a SOAP 1.1
// endpoint. Serialization goes through encoding/xml so text content is
// escaped by the marshaler rather than by hand.
package soapapi

import (
	"encoding/xml"
	"errors"
	"io"
	"net/http"

	domain "github.com/cswatch/catalog/internal/app/domain/catalog"
	catalogsvc "github.com/cswatch/catalog/internal/app/services/catalog"
	"github.com/cswatch/catalog/internal/app/storage"
	"github.com/cswatch/catalog/pkg/logger"
)

// Namespace is the target namespace of the agents contract.
const Namespace = "http://cswatch.com/agents"

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

const maxRequestBytes = 1 << 20

// Handler serves POST /soap/agents.
type Handler struct {
	catalog *catalogsvc.Service
	log     *logger.Logger
}

// NewHandler constructs the SOAP agents endpoint.
func NewHandler(catalog *catalogsvc.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("soapapi")
	}
	return &Handler{catalog: catalog, log: log}
}

// AgentRequest carries the three optional catalog filters.
type AgentRequest struct {
	Name   string `xml:"name"`
	Rarity string `xml:"rarity"`
	Team   string `xml:"team"`
}

type requestEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		AgentRequest AgentRequest `xml:"AgentRequest"`
	} `xml:"Body"`
}

type responseEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    responseBody
}

type responseBody struct {
	XMLName  xml.Name       `xml:"soap:Body"`
	Response *agentResponse `xml:",omitempty"`
	Fault    *soapFault     `xml:",omitempty"`
}

type agentResponse struct {
	XMLName xml.Name   `xml:"tns:AgentResponse"`
	TNS     string     `xml:"xmlns:tns,attr"`
	Agents  agentsList `xml:"tns:agents"`
}

type agentsList struct {
	Agents []agentXML `xml:"tns:agent"`
}

type agentXML struct {
	ID     string    `xml:"tns:id"`
	Name   string    `xml:"tns:name"`
	Image  string    `xml:"tns:image"`
	Rarity rarityXML `xml:"tns:rarity"`
	Team   teamXML   `xml:"tns:team"`
}

type rarityXML struct {
	Name  string `xml:"tns:name"`
	Color string `xml:"tns:color"`
}

type teamXML struct {
	Name string `xml:"tns:name"`
}

type soapFault struct {
	XMLName     xml.Name `xml:"soap:Fault"`
	FaultCode   string   `xml:"faultcode"`
	FaultString string   `xml:"faultstring"`
}

// ServeHTTP parses the request envelope, runs the shared query engine over
// the agents collection and writes the namespaced response. Every failure
// path produces a soap:Fault, never a bare error.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeFault(w, http.StatusMethodNotAllowed, "soap:Client", "only POST is supported")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	r.Body.Close()
	if err != nil {
		h.writeFault(w, http.StatusBadRequest, "soap:Client", "unable to read request body")
		return
	}

	var envelope requestEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		h.writeFault(w, http.StatusBadRequest, "soap:Client", "malformed SOAP envelope")
		return
	}

	req := envelope.Body.AgentRequest
	result, err := h.catalog.Query(r.Context(), domain.Agents, catalogsvc.Params{
		Name:   req.Name,
		Rarity: req.Rarity,
		Team:   req.Team,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			h.writeFault(w, http.StatusInternalServerError, "soap:Server", "agents data unavailable")
			return
		}
		h.log.WithError(err).Error("soap agents query failed")
		h.writeFault(w, http.StatusInternalServerError, "soap:Server", "Internal Server Error")
		return
	}

	response := &agentResponse{
		TNS:    Namespace,
		Agents: agentsList{Agents: make([]agentXML, 0, len(result.Items))},
	}
	for _, item := range result.Items {
		response.Agents.Agents = append(response.Agents.Agents, toAgentXML(item))
	}

	h.writeEnvelope(w, http.StatusOK, responseBody{Response: response})
}

func toAgentXML(item domain.Item) agentXML {
	out := agentXML{
		ID:    item.ID,
		Name:  item.Name,
		Image: item.Image,
	}
	if item.Rarity != nil {
		out.Rarity = rarityXML{Name: item.Rarity.Name, Color: item.Rarity.Color}
	}
	if item.Team != nil {
		out.Team = teamXML{Name: item.Team.Name}
	}
	return out
}

func (h *Handler) writeFault(w http.ResponseWriter, status int, code, message string) {
	h.writeEnvelope(w, status, responseBody{Fault: &soapFault{FaultCode: code, FaultString: message}})
}

func (h *Handler) writeEnvelope(w http.ResponseWriter, status int, body responseBody) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)

	envelope := responseEnvelope{SoapNS: soapEnvelopeNS, Body: body}
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		h.log.WithError(err).Error("failed to encode soap envelope")
	}
}
