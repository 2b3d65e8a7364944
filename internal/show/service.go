package show

import (
	"fmt"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

// Service renders a core/v1 Service
type Service struct {
	object
	svc *corev1.Service
}

func NewService(svc *corev1.Service) *Service {
	return &Service{object: newObject(svc, corev1.SchemeGroupVersion.WithKind("Service")), svc: svc}
}

func (s *Service) Header(format types.OutputFormat) []string {
	header := []string{"NAMESPACE", "NAME", "TYPE", "CLUSTER-IP", "EXTERNAL-IP", "PORT(S)", "AGE"}
	if format.IsWide() {
		header = append(header, "SELECTOR")
	}
	return header
}

func (s *Service) Data(params types.ShowParams, format types.OutputFormat) []string {
	row := []string{
		s.namespace(),
		s.nameCell(params),
		string(s.svc.Spec.Type),
		orNone(s.svc.Spec.ClusterIP),
		serviceExternalIP(s.svc),
		servicePorts(s.svc.Spec.Ports),
		s.age(),
	}
	if format.IsWide() {
		row = append(row, FormatLabels(s.svc.Spec.Selector))
	}
	return row
}

func serviceExternalIP(svc *corev1.Service) string {
	switch svc.Spec.Type {
	case corev1.ServiceTypeClusterIP, corev1.ServiceTypeNodePort:
		return orNone(strings.Join(svc.Spec.ExternalIPs, ","))
	case corev1.ServiceTypeExternalName:
		return svc.Spec.ExternalName
	case corev1.ServiceTypeLoadBalancer:
		ips := make([]string, 0, len(svc.Status.LoadBalancer.Ingress)+len(svc.Spec.ExternalIPs))
		for _, ing := range svc.Status.LoadBalancer.Ingress {
			switch {
			case ing.IP != "":
				ips = append(ips, ing.IP)
			case ing.Hostname != "":
				ips = append(ips, ing.Hostname)
			}
		}
		ips = append(ips, svc.Spec.ExternalIPs...)
		if len(ips) == 0 {
			return "<pending>"
		}
		return strings.Join(ips, ",")
	}
	return "<unknown>"
}

func servicePorts(ports []corev1.ServicePort) string {
	if len(ports) == 0 {
		return none
	}
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		port := fmt.Sprintf("%d/%s", p.Port, p.Protocol)
		if p.NodePort > 0 {
			port = fmt.Sprintf("%d:%d/%s", p.Port, p.NodePort, p.Protocol)
		}
		out = append(out, port)
	}
	return strings.Join(out, ",")
}
