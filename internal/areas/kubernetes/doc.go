// Package kubernetes implements the kubernetes command group. Clusters are
// reached through the local kubeconfig, one clientset per call.
package kubernetes
