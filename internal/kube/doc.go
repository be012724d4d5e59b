// Package kube reads the local kubeconfig and builds Kubernetes clients.
//
// Loading follows kubectl: the KUBECONFIG environment variable, then
// ~/.kube/config. GetStartingConfig and NewClientset are variables so tests
// can substitute them.
package kube
