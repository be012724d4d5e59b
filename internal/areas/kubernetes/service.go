package kubernetes

import (
	"context"
	"fmt"
	"time"

	"azmcp/internal/kube"
	"azmcp/pkg/logging"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Namespace is the projection of a cluster namespace.
type Namespace struct {
	Name      string    `json:"name"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pod is the projection of a pod returned to clients.
type Pod struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	Phase      string            `json:"phase"`
	Node       string            `json:"node,omitempty"`
	PodIP      string            `json:"podIP,omitempty"`
	Ready      string            `json:"ready"`
	Restarts   int32             `json:"restarts"`
	Containers []string          `json:"containers"`
	Labels     map[string]string `json:"labels,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Service is the cluster collaborator of the kubernetes commands. An empty
// kubeContext selects the current kubeconfig context.
type Service interface {
	ListNamespaces(ctx context.Context, kubeContext string) ([]Namespace, error)
	ListPods(ctx context.Context, kubeContext, namespace, selector string) ([]Pod, error)
	GetPod(ctx context.Context, kubeContext, namespace, name string) (*Pod, error)
}

// ClientsetService implements Service over client-go.
type ClientsetService struct {
	newClientset func(kubeContext string) (kubernetes.Interface, error)
}

// NewClientsetService builds clientsets from the user's kubeconfig.
func NewClientsetService() *ClientsetService {
	return NewClientsetServiceWith(kube.NewClientset)
}

// NewClientsetServiceWith uses a custom clientset constructor.
func NewClientsetServiceWith(newClientset func(kubeContext string) (kubernetes.Interface, error)) *ClientsetService {
	return &ClientsetService{newClientset: newClientset}
}

func (s *ClientsetService) ListNamespaces(ctx context.Context, kubeContext string) ([]Namespace, error) {
	cs, err := s.newClientset(kubeContext)
	if err != nil {
		return nil, err
	}
	list, err := cs.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	namespaces := make([]Namespace, 0, len(list.Items))
	for _, ns := range list.Items {
		namespaces = append(namespaces, Namespace{
			Name:      ns.Name,
			Phase:     string(ns.Status.Phase),
			CreatedAt: ns.CreationTimestamp.Time,
		})
	}
	return namespaces, nil
}

func (s *ClientsetService) ListPods(ctx context.Context, kubeContext, namespace, selector string) ([]Pod, error) {
	cs, err := s.newClientset(kubeContext)
	if err != nil {
		return nil, err
	}
	list, err := cs.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %s: %w", namespace, err)
	}
	logging.Debug("Kubernetes", "Listed %d pods in namespace %q", len(list.Items), namespace)

	pods := make([]Pod, 0, len(list.Items))
	for i := range list.Items {
		pods = append(pods, podFrom(&list.Items[i]))
	}
	return pods, nil
}

func (s *ClientsetService) GetPod(ctx context.Context, kubeContext, namespace, name string) (*Pod, error) {
	cs, err := s.newClientset(kubeContext)
	if err != nil {
		return nil, err
	}
	p, err := cs.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get pod %s/%s: %w", namespace, name, err)
	}
	pod := podFrom(p)
	return &pod, nil
}

func podFrom(p *corev1.Pod) Pod {
	var ready int
	var restarts int32
	for _, cs := range p.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		restarts += cs.RestartCount
	}

	containers := make([]string, 0, len(p.Spec.Containers))
	for _, c := range p.Spec.Containers {
		containers = append(containers, c.Name)
	}

	return Pod{
		Name:       p.Name,
		Namespace:  p.Namespace,
		Phase:      string(p.Status.Phase),
		Node:       p.Spec.NodeName,
		PodIP:      p.Status.PodIP,
		Ready:      fmt.Sprintf("%d/%d", ready, len(p.Spec.Containers)),
		Restarts:   restarts,
		Containers: containers,
		Labels:     p.Labels,
		CreatedAt:  p.CreationTimestamp.Time,
	}
}
